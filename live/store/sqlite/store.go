package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/internal/log"
	"github.com/imtaco/resonare-live/live"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL REFERENCES profiles(id),
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS likes (
	item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE (item_id, user_id)
);
CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS blocks (
	blocker_id TEXT NOT NULL,
	blocked_id TEXT NOT NULL,
	PRIMARY KEY (blocker_id, blocked_id)
);
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	actor_id TEXT NOT NULL,
	type TEXT NOT NULL,
	reference_id TEXT,
	read INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS notifications_user_created
	ON notifications (user_id, created_at DESC);
`

const notificationColumns = `
	n.id, n.user_id, n.actor_id, n.type, n.reference_id, n.read, n.created_at,
	p.id, p.username, p.display_name, p.avatar_url`

// Store is the SQLite implementation of live.Store.
type Store struct {
	db     *sql.DB
	now    func() time.Time
	logger *log.Logger
}

var _ live.Store = (*Store)(nil)

func Open(cfg *Config, logger *log.Logger) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := openDB(cfg.Path, cfg.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logger.Info("SQLite store opened", log.String("path", cfg.Path))
	return &Store{
		db:     db,
		now:    time.Now,
		logger: logger,
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// openDB sets pragmas in the DSN so every pooled connection gets them.
func openDB(path string, busy time.Duration) (*sql.DB, error) {
	if busy <= 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		path, busy.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s *Store) FetchNotification(ctx context.Context, id string) (*live.Notification, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+notificationColumns+`
		FROM notifications n LEFT JOIN profiles p ON p.id = n.actor_id
		WHERE n.id = ?`, id)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf(live.ErrNotFound, "notification %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch notification: %w", err)
	}
	return n, nil
}

func (s *Store) FetchActor(ctx context.Context, id string) (*live.Actor, error) {
	var a live.Actor
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, avatar_url FROM profiles WHERE id = ?`, id).
		Scan(&a.ID, &a.Username, &a.DisplayName, &a.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf(live.ErrNotFound, "profile %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch actor: %w", err)
	}
	return &a, nil
}

// InsertLike fails with ErrPermissionDenied when the item owner blocked the
// liker and with ErrAlreadyLiked when the pair exists.
func (s *Store) InsertLike(ctx context.Context, itemID, userID string) error {
	owner, err := s.ItemOwner(ctx, itemID)
	if err != nil {
		return err
	}

	var blocked int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM blocks WHERE blocker_id = ? AND blocked_id = ?`, owner, userID).
		Scan(&blocked)
	if err != nil {
		return fmt.Errorf("check block: %w", err)
	}
	if blocked > 0 {
		return errors.Newf(live.ErrPermissionDenied, "user %s may not like item %s", userID, itemID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO likes (item_id, user_id, created_at) VALUES (?, ?, ?)`,
		itemID, userID, s.timestamp())
	if isUniqueViolation(err) {
		return errors.Wrap(live.ErrAlreadyLiked, err, "insert like")
	}
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (s *Store) DeleteLike(ctx context.Context, itemID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE item_id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(live.ErrNotLiked, "user %s has not liked item %s", userID, itemID)
	}
	return nil
}

// SocialInfo reports counts for itemID. HasLiked is false for an empty userID.
func (s *Store) SocialInfo(ctx context.Context, itemID, userID string) (*live.SocialInfo, error) {
	var info live.SocialInfo
	var liked int
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(1) FROM likes WHERE item_id = ?),
		(SELECT COUNT(1) FROM comments WHERE item_id = ?),
		(SELECT COUNT(1) FROM likes WHERE item_id = ? AND user_id = ?)`,
		itemID, itemID, itemID, userID).
		Scan(&info.LikesCount, &info.CommentsCount, &liked)
	if err != nil {
		return nil, fmt.Errorf("query social info: %w", err)
	}
	info.HasLiked = userID != "" && liked > 0
	return &info, nil
}

func (s *Store) ItemOwner(ctx context.Context, itemID string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM items WHERE id = ?`, itemID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Newf(live.ErrNotFound, "item %s not found", itemID)
	}
	if err != nil {
		return "", fmt.Errorf("query item owner: %w", err)
	}
	return owner, nil
}

func (s *Store) InsertNotification(ctx context.Context, n *live.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	var ref sql.NullString
	if n.ReferenceID != "" {
		ref = sql.NullString{String: n.ReferenceID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, actor_id, type, reference_id, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.ActorID, string(n.Type), ref, boolToInt(n.Read),
		n.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns newest first. limit is clamped to (0, 100].
func (s *Store) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*live.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset = max(offset, 0)

	rows, err := s.db.QueryContext(ctx, `SELECT `+notificationColumns+`
		FROM notifications n LEFT JOIN profiles p ON p.id = n.actor_id
		WHERE n.user_id = ?
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*live.Notification, 0, limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM notifications WHERE user_id = ? AND read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func (s *Store) MarkRead(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return expectRow(res, id)
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0`, userID)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

func (s *Store) DeleteNotification(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return expectRow(res, id)
}

// UpsertProfile creates or updates a profile row.
func (s *Store) UpsertProfile(ctx context.Context, a *live.Actor) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, username, display_name, avatar_url) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 username = excluded.username,
		 display_name = excluded.display_name,
		 avatar_url = excluded.avatar_url`,
		a.ID, a.Username, a.DisplayName, a.AvatarURL)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Store) CreateItem(ctx context.Context, itemID, ownerID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, owner_id, created_at) VALUES (?, ?, ?)`,
		itemID, ownerID, s.timestamp())
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (s *Store) AddComment(ctx context.Context, id, itemID, userID, body string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, item_id, user_id, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, itemID, userID, body, s.timestamp())
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

func (s *Store) Block(ctx context.Context, blockerID, blockedID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blocks (blocker_id, blocked_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("block: %w", err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (*live.Notification, error) {
	var (
		n        live.Notification
		typ      string
		ref      sql.NullString
		read     int
		created  string
		actorID  sql.NullString
		username sql.NullString
		display  sql.NullString
		avatar   sql.NullString
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.ActorID, &typ, &ref, &read, &created,
		&actorID, &username, &display, &avatar); err != nil {
		return nil, err
	}
	n.Type = live.NotificationType(typ)
	n.ReferenceID = ref.String
	n.Read = read != 0
	if ts, err := time.Parse(timeLayout, created); err == nil {
		n.CreatedAt = ts
	}
	if actorID.Valid {
		n.Actor = &live.Actor{
			ID:          actorID.String,
			Username:    username.String,
			DisplayName: display.String,
			AvatarURL:   avatar.String,
		}
	}
	return &n, nil
}

func expectRow(res sql.Result, id string) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(live.ErrNotFound, "notification %s not found", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	se, ok := errors.As[*msqlite.Error](err)
	if !ok {
		return false
	}
	switch (*se).Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
