package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/hr-records/internal/core/catalog"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

// catalogTables は種別ごとのテーブル名です。値は固定文字列のみで、入力から組み立てません。
var catalogTables = map[catalog.Kind]string{
	catalog.KindSkill:         "skills",
	catalog.KindCertification: "certifications",
	catalog.KindLanguage:      "languages",
}

// CatalogRepository は PostgreSQL を利用したスキル・資格・言語カタログの実装です。
type CatalogRepository struct {
	pool pgdb.Queryer
}

// NewCatalogRepository は CatalogRepository を生成します。
func NewCatalogRepository(pool pgdb.Queryer) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Create はカタログ項目を新規作成します。
func (r *CatalogRepository) Create(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	table, err := catalogTable(item.Kind)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO `+table+` (name, created_at, updated_at)
        VALUES ($1, $2, $3)
        RETURNING id, name, created_at, updated_at
    `, item.Name, item.CreatedAt, item.UpdatedAt)

	created, err := scanCatalogItem(row, item.Kind)
	if err != nil {
		return nil, translateCatalogPgError(err)
	}
	return created, nil
}

// Update はカタログ項目の名前を更新します。
func (r *CatalogRepository) Update(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	table, err := catalogTable(item.Kind)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE `+table+`
           SET name = $1,
               updated_at = $2
         WHERE id = $3
        RETURNING id, name, created_at, updated_at
    `, item.Name, item.UpdatedAt, item.ID)

	updated, err := scanCatalogItem(row, item.Kind)
	if err != nil {
		return nil, translateCatalogPgError(err)
	}
	return updated, nil
}

// Delete はカタログ項目を削除します。社員との関連は ON DELETE CASCADE で削除されます。
func (r *CatalogRepository) Delete(ctx context.Context, kind catalog.Kind, id string) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return translateCatalogPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// FindByID は ID でカタログ項目を取得します。
func (r *CatalogRepository) FindByID(ctx context.Context, kind catalog.Kind, id string) (*catalog.Item, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, created_at, updated_at
          FROM `+table+`
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanCatalogItem(row, kind)
	if err != nil {
		return nil, translateCatalogPgError(err)
	}
	return found, nil
}

// FindByName は大文字小文字を区別せずに名前でカタログ項目を取得します。
func (r *CatalogRepository) FindByName(ctx context.Context, kind catalog.Kind, name string) (*catalog.Item, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, created_at, updated_at
          FROM `+table+`
         WHERE lower(name) = lower($1)
         LIMIT 1
    `, name)

	found, err := scanCatalogItem(row, kind)
	if err != nil {
		return nil, translateCatalogPgError(err)
	}
	return found, nil
}

// List はカタログ項目を名前順に取得します。
func (r *CatalogRepository) List(ctx context.Context, kind catalog.Kind) ([]*catalog.Item, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, name, created_at, updated_at
          FROM `+table+`
         ORDER BY name, id
    `)
	if err != nil {
		return nil, translateCatalogPgError(err)
	}
	defer rows.Close()

	items := make([]*catalog.Item, 0)
	for rows.Next() {
		item, err := scanCatalogItem(rows, kind)
		if err != nil {
			return nil, translateCatalogPgError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, translateCatalogPgError(err)
	}

	return items, nil
}

func catalogTable(kind catalog.Kind) (string, error) {
	table, ok := catalogTables[kind]
	if !ok {
		return "", catalog.ErrInvalidKind
	}
	return table, nil
}

func scanCatalogItem(row pgx.Row, kind catalog.Kind) (*catalog.Item, error) {
	var (
		id, name             string
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, err
	}

	return &catalog.Item{
		ID:        id,
		Kind:      kind,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func translateCatalogPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return catalog.ErrNameAlreadyExists
	}
	return err
}
