package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FindOrCreateResource returns the resource for (recordID, source), inserting
// it first when the catalog has no row for the pair.
func (s *Store) FindOrCreateResource(ctx context.Context, recordID, source, title string) (*Resource, error) {
	resource, err := s.findResource(ctx, recordID, source)
	if err != nil {
		return nil, err
	}
	if resource != nil {
		return resource, nil
	}

	now := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO resource (record_id, source, title, created) VALUES (?, ?, ?, ?)`,
		recordID,
		source,
		title,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.resourceByID(ctx, id)
}

func (s *Store) findResource(ctx context.Context, recordID, source string) (*Resource, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+resourceColumns+` FROM resource WHERE record_id = ? AND source = ?`,
		recordID,
		source,
	)
	resource, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return resource, nil
}

func (s *Store) resourceByID(ctx context.Context, id int64) (*Resource, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resource WHERE id = ?`, id)
	resource, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return resource, nil
}

// CommentsForResource returns every comment attached to a resource ordered by
// creation time.
func (s *Store) CommentsForResource(ctx context.Context, resourceID int64) ([]*Comment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+commentColumns+` FROM comments WHERE resource_id = ? ORDER BY created, id`,
		resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// AddComment inserts a comment for a resource using the supplied creation
// time. A zero userID is stored as NULL.
func (s *Store) AddComment(ctx context.Context, resourceID, userID int64, text string, created time.Time) (*Comment, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO comments (resource_id, user_id, comment, created) VALUES (?, ?, ?, ?)`,
		resourceID,
		nullableInt64(userID),
		text,
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// LinkComment binds a comment to the record identifier it was imported for.
// Linking the same pair twice is a no-op.
func (s *Store) LinkComment(ctx context.Context, commentID int64, recordID string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT OR IGNORE INTO comments_record (comment_id, record_id, created) VALUES (?, ?, ?)`,
		commentID,
		recordID,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("link comment: %w", err)
	}
	return nil
}

// LinksForComment returns the record identifiers a comment is linked to.
func (s *Store) LinksForComment(ctx context.Context, commentID int64) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT record_id FROM comments_record WHERE comment_id = ? ORDER BY record_id`,
		commentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query comment links: %w", err)
	}
	defer rows.Close()

	var records []string
	for rows.Next() {
		var recordID string
		if err := rows.Scan(&recordID); err != nil {
			return nil, err
		}
		records = append(records, recordID)
	}
	return records, rows.Err()
}

// AddRating inserts a rating for a resource using the supplied creation time.
func (s *Store) AddRating(ctx context.Context, resourceID int64, value int, created time.Time) (*Rating, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO ratings (resource_id, value, created) VALUES (?, ?, ?)`,
		resourceID,
		value,
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE id = ?`, id)
	rating, err := scanRating(row)
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}

// RatingsForResource returns every rating attached to a resource ordered by
// creation time.
func (s *Store) RatingsForResource(ctx context.Context, resourceID int64) ([]*Rating, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE resource_id = ? ORDER BY created, id`,
		resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*Rating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
