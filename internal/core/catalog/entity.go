package catalog

import "time"

// Kind はカタログの種別を表します。
type Kind string

const (
	KindSkill         Kind = "skill"
	KindCertification Kind = "certification"
	KindLanguage      Kind = "language"
)

// Kinds は扱うカタログ種別の一覧です。
var Kinds = []Kind{KindSkill, KindCertification, KindLanguage}

// Valid は種別が既知のものか判定します。
func (k Kind) Valid() bool {
	switch k {
	case KindSkill, KindCertification, KindLanguage:
		return true
	default:
		return false
	}
}

// Item は社員間で共有される名前一意のカタログ項目です。
type Item struct {
	ID        string
	Kind      Kind
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
