// Package solr provides the minimal discovery-index surface record
// resolution needs: realtime single-document lookup and filtered select
// queries against one core.
package solr
