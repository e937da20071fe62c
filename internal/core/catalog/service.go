package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const maxNameLength = 100

// Service はスキル・資格・言語カタログのユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase はカタログユースケースの公開インターフェースです。
type UseCase interface {
	CreateItem(ctx context.Context, in CreateItemInput) (*Item, error)
	GetItem(ctx context.Context, in GetItemInput) (*Item, error)
	ListItems(ctx context.Context, kind Kind) ([]*Item, error)
	UpdateItem(ctx context.Context, in UpdateItemInput) (*Item, error)
	DeleteItem(ctx context.Context, in DeleteItemInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateItemInput はカタログ項目作成時の入力です。
type CreateItemInput struct {
	Kind Kind
	Name string
}

// UpdateItemInput はカタログ項目更新時の入力です。
type UpdateItemInput struct {
	Kind Kind
	ID   string
	Name string
}

// GetItemInput はカタログ項目取得時の入力です。
type GetItemInput struct {
	Kind Kind
	ID   string
}

// DeleteItemInput はカタログ項目削除時の入力です。
type DeleteItemInput struct {
	Kind Kind
	ID   string
}

// CreateItem は新しいカタログ項目を作成します。
func (s *Service) CreateItem(ctx context.Context, in CreateItemInput) (*Item, error) {
	if !in.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	var created *Item
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureNameNotExists(txCtx, in.Kind, name, ""); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Item{
			Kind:      in.Kind,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateItem はカタログ項目の名前を変更します。
func (s *Service) UpdateItem(ctx context.Context, in UpdateItemInput) (*Item, error) {
	if !in.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	var updated *Item
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.Kind, id)
		if err != nil {
			return err
		}

		if err := s.ensureNameNotExists(txCtx, in.Kind, name, existing.ID); err != nil {
			return err
		}

		existing.Name = name
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteItem はカタログ項目を削除します。紐づく社員の関連レコードも削除されます。
func (s *Service) DeleteItem(ctx context.Context, in DeleteItemInput) error {
	if !in.Kind.Valid() {
		return ErrInvalidKind
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.Kind, id)
	})
}

// GetItem はカタログ項目を取得します。
func (s *Service) GetItem(ctx context.Context, in GetItemInput) (*Item, error) {
	if !in.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var result *Item
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.Kind, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListItems は種別ごとの全項目を名前順で返します。
func (s *Service) ListItems(ctx context.Context, kind Kind) ([]*Item, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	var items []*Item
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx, kind)
		if err != nil {
			return err
		}
		items = found
		return nil
	}); err != nil {
		return nil, err
	}

	return items, nil
}

// ensureNameNotExists は同名チェックの高速パスです。最終的な一意性はストレージの制約が保証します。
func (s *Service) ensureNameNotExists(ctx context.Context, kind Kind, name, excludeID string) error {
	found, err := s.repo.FindByName(ctx, kind, name)
	if err != nil && !errors.Is(err, ErrItemNotFound) {
		return err
	}
	if found != nil && found.ID != excludeID {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNameAlreadyExists)
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id %q: %w", raw, ErrInvalidID)
	}
	return parsed.String(), nil
}
