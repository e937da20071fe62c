package employee

import (
	"context"

	"github.com/ogurasousui/hr-records/internal/core/catalog"
)

// Repository は社員集約の永続化の抽象です。集約の書き込み順序はサービス側が決めます。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, string, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	PassportNumberTaken(ctx context.Context, number, excludeID string) (bool, error)

	CreateFamily(ctx context.Context, employeeID string, family Family) error
	// UpdateFamily は既存の家族情報を更新し、存在しなければ ReferenceNotFoundError を返します。
	UpdateFamily(ctx context.Context, employeeID string, family Family) error
	CreatePassport(ctx context.Context, employeeID string, passport PassportInfo) error
	UpdatePassport(ctx context.Context, employeeID string, passport PassportInfo) error

	DeleteEducations(ctx context.Context, employeeID string) error
	CreateEducation(ctx context.Context, employeeID string, education Education) error
	DeleteWorkExperiences(ctx context.Context, employeeID string) error
	CreateWorkExperience(ctx context.Context, employeeID string, experience WorkExperience) error
	DeleteSkills(ctx context.Context, employeeID string) error
	AddSkill(ctx context.Context, employeeID, skillID string) error
	DeleteCertifications(ctx context.Context, employeeID string) error
	AddCertification(ctx context.Context, employeeID string, certification EmployeeCertification) error
	DeleteLanguages(ctx context.Context, employeeID string) error
	AddLanguage(ctx context.Context, employeeID string, language EmployeeLanguage) error
}

// CatalogLookup は参照されるスキル・資格・言語の存在確認に使います。
type CatalogLookup interface {
	FindByID(ctx context.Context, kind catalog.Kind, id string) (*catalog.Item, error)
}

// ListEmployeesFilter は一覧取得用フィルタです。Terms は全て一致する必要があります。
type ListEmployeesFilter struct {
	Terms  []string
	Limit  int
	Offset int
}
