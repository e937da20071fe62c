package catalog

import "context"

// Repository はカタログ項目の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	Update(ctx context.Context, item *Item) (*Item, error)
	Delete(ctx context.Context, kind Kind, id string) error
	FindByID(ctx context.Context, kind Kind, id string) (*Item, error)
	// FindByName は大文字小文字を区別せずに名前で検索します。
	FindByName(ctx context.Context, kind Kind, name string) (*Item, error)
	List(ctx context.Context, kind Kind) ([]*Item, error)
}
