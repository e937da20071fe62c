package catalog

import "errors"

var (
	// ErrItemNotFound はカタログ項目が存在しない場合に返却されます。
	ErrItemNotFound = errors.New("catalog: item not found")
	// ErrNameAlreadyExists は大文字小文字を区別せず同名の項目が存在する場合に返却されます。
	ErrNameAlreadyExists = errors.New("catalog: name already exists")
	// ErrInvalidName は名前が不正な場合に返却されます。
	ErrInvalidName = errors.New("catalog: invalid name")
	// ErrInvalidKind は種別が不正な場合に返却されます。
	ErrInvalidKind = errors.New("catalog: invalid kind")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("catalog: invalid id")
)
