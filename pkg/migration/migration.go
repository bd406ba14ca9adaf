package migration

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
)

const tableName = "schema_migrations"

// Migration is one NNN_name.up.sql / NNN_name.down.sql pair.
type Migration struct {
	ID      string
	UpSQL   string
	DownSQL string
}

// Runner applies migrations read from an fs.FS (usually an embed.FS).
type Runner struct {
	client postgresql.PostgreSQLClient
	files  fs.FS
	logger logger.Interface
}

// NewRunner creates a new migration runner.
func NewRunner(client postgresql.PostgreSQLClient, files fs.FS, log logger.Interface) *Runner {
	return &Runner{
		client: client,
		files:  files,
		logger: log,
	}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	_, err := r.client.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+tableName+` (
		id VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return errors.Transient("migration table", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := r.client.Query(ctx, `SELECT id FROM `+tableName)
	if err != nil {
		return nil, errors.Transient("migration list", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.TracerFromError(err)
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// Load reads every migration in files, sorted by ID.
func (r *Runner) Load() ([]Migration, error) {
	ups, err := fs.Glob(r.files, "*.up.sql")
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	sort.Strings(ups)

	migrations := make([]Migration, 0, len(ups))
	for _, up := range ups {
		upSQL, err := fs.ReadFile(r.files, up)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		id := strings.TrimSuffix(path.Base(up), ".up.sql")
		m := Migration{ID: id, UpSQL: strings.TrimSpace(string(upSQL))}
		if downSQL, err := fs.ReadFile(r.files, id+".down.sql"); err == nil {
			m.DownSQL = strings.TrimSpace(string(downSQL))
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

// Up applies every pending migration, each in its own transaction. steps <= 0
// applies all of them.
func (r *Runner) Up(ctx context.Context, steps int) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	migrations, err := r.Load()
	if err != nil {
		return err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range migrations {
		if applied[m.ID] {
			continue
		}
		if steps > 0 && count >= steps {
			break
		}
		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, m.UpSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx, `INSERT INTO `+tableName+` (id) VALUES ($1)`, m.ID)
			return err
		})
		if err != nil {
			return errors.NewTracer(fmt.Sprintf("apply migration %s", m.ID)).Wrap(err)
		}
		r.logger.Info("applied migration", logger.NewField("id", m.ID))
		count++
	}
	return nil
}

// Down reverts the last steps applied migrations.
func (r *Runner) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return errors.New(errors.GeneralBadRequestError, "steps must be greater than 0", "steps")
	}
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	migrations, err := r.Load()
	if err != nil {
		return err
	}
	applied, err := r.applied(ctx)
	if err != nil {
		return err
	}

	reverted := 0
	for i := len(migrations) - 1; i >= 0 && reverted < steps; i-- {
		m := migrations[i]
		if !applied[m.ID] {
			continue
		}
		if m.DownSQL == "" {
			return errors.New(errors.GeneralBadRequestError, "no down migration for "+m.ID, "steps")
		}
		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, m.DownSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx, `DELETE FROM `+tableName+` WHERE id = $1`, m.ID)
			return err
		})
		if err != nil {
			return errors.NewTracer(fmt.Sprintf("revert migration %s", m.ID)).Wrap(err)
		}
		r.logger.Info("reverted migration", logger.NewField("id", m.ID))
		reverted++
	}
	return nil
}
