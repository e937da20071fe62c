package employee

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ogurasousui/hr-records/internal/core/catalog"
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

const maxListPageSize = 200

var searchTermSeparator = regexp.MustCompile(`[\s,]+`)

// Service は社員集約に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	catalog  CatalogLookup
	clock    Clock
	tx       TransactionManager
	validate *validator.Validate
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, lookup CatalogLookup, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo:     repo,
		catalog:  lookup,
		clock:    clock,
		tx:       tx,
		validate: newValidator(clock),
	}
}

// CreateEmployeeInput は社員集約作成時の入力です。json タグは検証エラーのフィールドパスに使われます。
type CreateEmployeeInput struct {
	FirstName       string                `json:"first_name" validate:"required,min=2,max=30"`
	LastName        string                `json:"last_name" validate:"required,min=2,max=30"`
	Patronymic      *string               `json:"patronymic" validate:"omitempty,max=30"`
	DateOfBirth     time.Time             `json:"date_of_birth" validate:"required,notfuture"`
	Gender          Gender                `json:"gender" validate:"required,oneof=male female"`
	Nationality     string                `json:"nationality" validate:"required,max=50"`
	Email           string                `json:"email" validate:"required,email,max=254"`
	PhoneNumber     string                `json:"phone_number" validate:"required,phone"`
	Address         string                `json:"address" validate:"required,max=255"`
	Family          *FamilyInput          `json:"family" validate:"required"`
	Passport        *PassportInput        `json:"passport_info" validate:"required"`
	Educations      []EducationInput      `json:"educations" validate:"dive"`
	WorkExperiences []WorkExperienceInput `json:"work_experiences" validate:"dive"`
	Skills          []SkillRef            `json:"skills" validate:"unique=SkillID,dive"`
	Certifications  []CertificationRef    `json:"certifications" validate:"unique=CertificationID,dive"`
	Languages       []LanguageRef         `json:"languages" validate:"unique=LanguageID,dive"`

	// DecodeErrors は入力変換時（日付形式など）に検出済みのエラーです。検証結果と 1 つにまとめて返します。
	DecodeErrors []FieldError `json:"-" validate:"-"`
}

// FamilyInput は家族情報の入力です。NumberOfChildren 省略時は 0 です。
type FamilyInput struct {
	MaritalStatus    MaritalStatus `json:"marital_status" validate:"required,oneof=single married divorced widowed"`
	NumberOfChildren *int          `json:"number_of_children" validate:"omitnil,min=0"`
}

// PassportInput はパスポート情報の入力です。
type PassportInput struct {
	PassportNumber string    `json:"passport_number" validate:"required,passportno"`
	IssuedBy       string    `json:"issued_by" validate:"required,max=100"`
	DateIssued     time.Time `json:"date_issued" validate:"required"`
	DateExpiry     time.Time `json:"date_expiry" validate:"required"`
}

// EducationInput は学歴の入力です。
type EducationInput struct {
	EducationLevel EducationLevel `json:"education_level" validate:"required,oneof=secondary bachelor master phd"`
	Institution    string         `json:"institution" validate:"required,max=100"`
	GraduationYear *int           `json:"graduation_year" validate:"omitnil,min=0,notfutureyear"`
	Specialty      string         `json:"specialty" validate:"required,max=100"`
}

// WorkExperienceInput は職歴の入力です。
type WorkExperienceInput struct {
	Employer         string     `json:"employer" validate:"required,max=100"`
	Position         string     `json:"position" validate:"required,max=50"`
	StartDate        time.Time  `json:"start_date" validate:"required"`
	EndDate          *time.Time `json:"end_date"`
	Responsibilities *string    `json:"responsibilities"`
}

// SkillRef は既存スキルへの参照です。
type SkillRef struct {
	SkillID string `json:"skill_id" validate:"required,uuid"`
}

// CertificationRef は既存資格への参照と取得日です。
type CertificationRef struct {
	CertificationID string    `json:"certification_id" validate:"required,uuid"`
	DateObtained    time.Time `json:"date_obtained" validate:"required,notfuture"`
}

// LanguageRef は既存言語への参照と習熟度です。
type LanguageRef struct {
	LanguageID       string           `json:"language_id" validate:"required,uuid"`
	ProficiencyLevel ProficiencyLevel `json:"proficiency_level" validate:"required,oneof=beginner intermediate advanced native"`
}

// UpdateEmployeeInput は社員集約更新時の入力です。
// nil のセクションは変更なし、空スライスを指すポインタはそのセクションを空にします。
// Partial が false の場合（PUT）は必須項目が全て揃っている必要があります。
type UpdateEmployeeInput struct {
	ID      string `json:"-"`
	Partial bool   `json:"-"`

	FirstName       *string                `json:"first_name" validate:"omitnil,required,min=2,max=30"`
	LastName        *string                `json:"last_name" validate:"omitnil,required,min=2,max=30"`
	Patronymic      *string                `json:"patronymic" validate:"omitnil,max=30"`
	DateOfBirth     *time.Time             `json:"date_of_birth" validate:"omitnil,required,notfuture"`
	Gender          *Gender                `json:"gender" validate:"omitnil,required,oneof=male female"`
	Nationality     *string                `json:"nationality" validate:"omitnil,required,max=50"`
	Email           *string                `json:"email" validate:"omitnil,required,email,max=254"`
	PhoneNumber     *string                `json:"phone_number" validate:"omitnil,required,phone"`
	Address         *string                `json:"address" validate:"omitnil,required,max=255"`
	Family          *FamilyPatch           `json:"family"`
	Passport        *PassportPatch         `json:"passport_info"`
	Educations      *[]EducationInput      `json:"educations" validate:"omitnil,dive"`
	WorkExperiences *[]WorkExperienceInput `json:"work_experiences" validate:"omitnil,dive"`
	Skills          *[]SkillRef            `json:"skills" validate:"omitnil,unique=SkillID,dive"`
	Certifications  *[]CertificationRef    `json:"certifications" validate:"omitnil,unique=CertificationID,dive"`
	Languages       *[]LanguageRef         `json:"languages" validate:"omitnil,unique=LanguageID,dive"`

	DecodeErrors []FieldError `json:"-" validate:"-"`
}

// FamilyPatch は家族情報の項目単位の更新です。
type FamilyPatch struct {
	MaritalStatus    *MaritalStatus `json:"marital_status" validate:"omitnil,required,oneof=single married divorced widowed"`
	NumberOfChildren *int           `json:"number_of_children" validate:"omitnil,min=0"`
}

// PassportPatch はパスポート情報の項目単位の更新です。
type PassportPatch struct {
	PassportNumber *string    `json:"passport_number" validate:"omitnil,required,passportno"`
	IssuedBy       *string    `json:"issued_by" validate:"omitnil,required,max=100"`
	DateIssued     *time.Time `json:"date_issued" validate:"omitnil,required"`
	DateExpiry     *time.Time `json:"date_expiry" validate:"omitnil,required"`
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。Search が空でなければ部分一致検索になります。
// PageSize が 0 の場合は全件を返します。
type ListEmployeesInput struct {
	Search    string
	PageSize  int
	PageToken string
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// CreateEmployee は社員と全ての子レコードを 1 トランザクションで作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	normalizeCreateInput(&in)
	if err := s.collectErrors(in, in.DecodeErrors).Err(); err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailAvailable(txCtx, in.Email, ""); err != nil {
			return err
		}
		if err := s.ensurePassportNumberAvailable(txCtx, in.Passport.PassportNumber, ""); err != nil {
			return err
		}

		now := s.clock.Now()
		emp, err := s.repo.Create(txCtx, &Employee{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Patronymic:  in.Patronymic,
			DateOfBirth: in.DateOfBirth,
			Gender:      in.Gender,
			Nationality: in.Nationality,
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			Address:     in.Address,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		if err := s.repo.CreateFamily(txCtx, emp.ID, in.Family.toFamily()); err != nil {
			return err
		}
		if err := s.repo.CreatePassport(txCtx, emp.ID, in.Passport.toPassport()); err != nil {
			return err
		}
		if err := s.writeEducations(txCtx, emp.ID, in.Educations); err != nil {
			return err
		}
		if err := s.writeWorkExperiences(txCtx, emp.ID, in.WorkExperiences); err != nil {
			return err
		}
		if err := s.writeSkills(txCtx, emp.ID, in.Skills); err != nil {
			return err
		}
		if err := s.writeCertifications(txCtx, emp.ID, in.Certifications); err != nil {
			return err
		}
		if err := s.writeLanguages(txCtx, emp.ID, in.Languages); err != nil {
			return err
		}

		result, err := s.repo.FindByID(txCtx, emp.ID)
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

// UpdateEmployee は社員集約を更新します。指定されたリストセクションは全削除後に再作成されます。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	normalizeUpdateInput(&in)
	verr := s.collectErrors(in, in.DecodeErrors)
	if !in.Partial {
		requireFullUpdate(in, verr)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		family, err := mergeFamily(existing, in.Family)
		if err != nil {
			return err
		}
		passport, err := mergePassport(existing, in.Passport)
		if err != nil {
			return err
		}

		if in.Email != nil && *in.Email != existing.Email {
			if err := s.ensureEmailAvailable(txCtx, *in.Email, id); err != nil {
				return err
			}
		}
		if passport != nil && passport.PassportNumber != existing.Passport.PassportNumber {
			if err := s.ensurePassportNumberAvailable(txCtx, passport.PassportNumber, id); err != nil {
				return err
			}
		}

		applyScalarUpdates(existing, in)
		existing.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(txCtx, existing); err != nil {
			return err
		}

		if family != nil {
			if err := s.repo.UpdateFamily(txCtx, id, *family); err != nil {
				return err
			}
		}
		if passport != nil {
			if err := s.repo.UpdatePassport(txCtx, id, *passport); err != nil {
				return err
			}
		}

		if in.Educations != nil {
			if err := s.repo.DeleteEducations(txCtx, id); err != nil {
				return err
			}
			if err := s.writeEducations(txCtx, id, *in.Educations); err != nil {
				return err
			}
		}
		if in.WorkExperiences != nil {
			if err := s.repo.DeleteWorkExperiences(txCtx, id); err != nil {
				return err
			}
			if err := s.writeWorkExperiences(txCtx, id, *in.WorkExperiences); err != nil {
				return err
			}
		}
		if in.Skills != nil {
			if err := s.repo.DeleteSkills(txCtx, id); err != nil {
				return err
			}
			if err := s.writeSkills(txCtx, id, *in.Skills); err != nil {
				return err
			}
		}
		if in.Certifications != nil {
			if err := s.repo.DeleteCertifications(txCtx, id); err != nil {
				return err
			}
			if err := s.writeCertifications(txCtx, id, *in.Certifications); err != nil {
				return err
			}
		}
		if in.Languages != nil {
			if err := s.repo.DeleteLanguages(txCtx, id); err != nil {
				return err
			}
			if err := s.writeLanguages(txCtx, id, *in.Languages); err != nil {
				return err
			}
		}

		result, err := s.repo.FindByID(txCtx, id)
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

// DeleteEmployee は社員を削除します。子レコードは外部キーのカスケードで削除されます。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	id, err := normalizeID(in.ID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// GetEmployee は社員集約を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
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

// ListEmployees は社員の一覧を取得します。検索語は空白とカンマで分割され、全ての語がいずれかの項目に一致する社員を返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		employees []*Employee
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, token, err := s.repo.List(txCtx, ListEmployeesFilter{
			Terms:  SearchTerms(in.Search),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		employees = found
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListEmployeesResult{Employees: employees, NextPageToken: nextToken}, nil
}

func (s *Service) writeEducations(ctx context.Context, employeeID string, items []EducationInput) error {
	for _, item := range items {
		if err := s.repo.CreateEducation(ctx, employeeID, Education{
			EducationLevel: item.EducationLevel,
			Institution:    item.Institution,
			GraduationYear: item.GraduationYear,
			Specialty:      item.Specialty,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeWorkExperiences(ctx context.Context, employeeID string, items []WorkExperienceInput) error {
	for _, item := range items {
		if err := s.repo.CreateWorkExperience(ctx, employeeID, WorkExperience{
			Employer:         item.Employer,
			Position:         item.Position,
			StartDate:        item.StartDate,
			EndDate:          item.EndDate,
			Responsibilities: item.Responsibilities,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeSkills(ctx context.Context, employeeID string, refs []SkillRef) error {
	for _, ref := range refs {
		item, err := s.resolveReference(ctx, catalog.KindSkill, ref.SkillID)
		if err != nil {
			return err
		}
		if err := s.repo.AddSkill(ctx, employeeID, item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeCertifications(ctx context.Context, employeeID string, refs []CertificationRef) error {
	for _, ref := range refs {
		item, err := s.resolveReference(ctx, catalog.KindCertification, ref.CertificationID)
		if err != nil {
			return err
		}
		if err := s.repo.AddCertification(ctx, employeeID, EmployeeCertification{
			Certification: CatalogRef{ID: item.ID, Name: item.Name},
			DateObtained:  ref.DateObtained,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeLanguages(ctx context.Context, employeeID string, refs []LanguageRef) error {
	for _, ref := range refs {
		item, err := s.resolveReference(ctx, catalog.KindLanguage, ref.LanguageID)
		if err != nil {
			return err
		}
		if err := s.repo.AddLanguage(ctx, employeeID, EmployeeLanguage{
			Language:         CatalogRef{ID: item.ID, Name: item.Name},
			ProficiencyLevel: ref.ProficiencyLevel,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) resolveReference(ctx context.Context, kind catalog.Kind, id string) (*catalog.Item, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("employee: catalog lookup is not configured")
	}
	item, err := s.catalog.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return nil, &ReferenceNotFoundError{Entity: string(kind), ID: id}
		}
		return nil, err
	}
	return item, nil
}

// ensureEmailAvailable はメールアドレス重複の高速パスです。最終的な一意性はストレージの制約が保証します。
func (s *Service) ensureEmailAvailable(ctx context.Context, email, excludeID string) error {
	taken, err := s.repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) ensurePassportNumberAvailable(ctx context.Context, number, excludeID string) error {
	taken, err := s.repo.PassportNumberTaken(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrPassportNumberAlreadyExists
	}
	return nil
}

func mergeFamily(existing *Employee, patch *FamilyPatch) (*Family, error) {
	if patch == nil {
		return nil, nil
	}
	if existing.Family == nil {
		return nil, &ReferenceNotFoundError{Entity: "family", ID: existing.ID}
	}
	merged := *existing.Family
	if patch.MaritalStatus != nil {
		merged.MaritalStatus = *patch.MaritalStatus
	}
	if patch.NumberOfChildren != nil {
		merged.NumberOfChildren = *patch.NumberOfChildren
	}
	return &merged, nil
}

// mergePassport は既存のパスポート情報に差分を適用し、適用後の日付の前後関係を検証します。
func mergePassport(existing *Employee, patch *PassportPatch) (*PassportInfo, error) {
	if patch == nil {
		return nil, nil
	}
	if existing.Passport == nil {
		return nil, &ReferenceNotFoundError{Entity: "passport_info", ID: existing.ID}
	}
	merged := *existing.Passport
	if patch.PassportNumber != nil {
		merged.PassportNumber = *patch.PassportNumber
	}
	if patch.IssuedBy != nil {
		merged.IssuedBy = *patch.IssuedBy
	}
	if patch.DateIssued != nil {
		merged.DateIssued = *patch.DateIssued
	}
	if patch.DateExpiry != nil {
		merged.DateExpiry = *patch.DateExpiry
	}
	if !merged.DateExpiry.After(merged.DateIssued) {
		verr := &ValidationError{}
		verr.Add("passport_info.date_expiry", "expiry date must be later than the issue date")
		return nil, verr
	}
	return &merged, nil
}

func applyScalarUpdates(e *Employee, in UpdateEmployeeInput) {
	if in.FirstName != nil {
		e.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		e.LastName = *in.LastName
	}
	if in.Patronymic != nil {
		if *in.Patronymic == "" {
			e.Patronymic = nil
		} else {
			value := *in.Patronymic
			e.Patronymic = &value
		}
	}
	if in.DateOfBirth != nil {
		e.DateOfBirth = *in.DateOfBirth
	}
	if in.Gender != nil {
		e.Gender = *in.Gender
	}
	if in.Nationality != nil {
		e.Nationality = *in.Nationality
	}
	if in.Email != nil {
		e.Email = *in.Email
	}
	if in.PhoneNumber != nil {
		e.PhoneNumber = *in.PhoneNumber
	}
	if in.Address != nil {
		e.Address = *in.Address
	}
}

func (f *FamilyInput) toFamily() Family {
	family := Family{MaritalStatus: f.MaritalStatus}
	if f.NumberOfChildren != nil {
		family.NumberOfChildren = *f.NumberOfChildren
	}
	return family
}

func (p *PassportInput) toPassport() PassportInfo {
	return PassportInfo{
		PassportNumber: p.PassportNumber,
		IssuedBy:       p.IssuedBy,
		DateIssued:     p.DateIssued,
		DateExpiry:     p.DateExpiry,
	}
}

func normalizeCreateInput(in *CreateEmployeeInput) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Patronymic = normalizeOptionalString(in.Patronymic)
	in.DateOfBirth = dateOf(in.DateOfBirth)
	in.Nationality = strings.TrimSpace(in.Nationality)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)

	if p := in.Passport; p != nil {
		p.PassportNumber = strings.TrimSpace(p.PassportNumber)
		p.IssuedBy = strings.TrimSpace(p.IssuedBy)
		p.DateIssued = dateOf(p.DateIssued)
		p.DateExpiry = dateOf(p.DateExpiry)
	}
	normalizeEducations(in.Educations)
	normalizeWorkExperiences(in.WorkExperiences)
	normalizeReferences(in.Skills, in.Certifications, in.Languages)
}

func normalizeUpdateInput(in *UpdateEmployeeInput) {
	in.FirstName = trimPtr(in.FirstName)
	in.LastName = trimPtr(in.LastName)
	in.Patronymic = trimPtr(in.Patronymic)
	in.DateOfBirth = datePtr(in.DateOfBirth)
	in.Nationality = trimPtr(in.Nationality)
	in.Email = trimPtr(in.Email)
	in.PhoneNumber = trimPtr(in.PhoneNumber)
	in.Address = trimPtr(in.Address)

	if p := in.Passport; p != nil {
		p.PassportNumber = trimPtr(p.PassportNumber)
		p.IssuedBy = trimPtr(p.IssuedBy)
		p.DateIssued = datePtr(p.DateIssued)
		p.DateExpiry = datePtr(p.DateExpiry)
	}
	if in.Educations != nil {
		normalizeEducations(*in.Educations)
	}
	if in.WorkExperiences != nil {
		normalizeWorkExperiences(*in.WorkExperiences)
	}
	var (
		skills []SkillRef
		certs  []CertificationRef
		langs  []LanguageRef
	)
	if in.Skills != nil {
		skills = *in.Skills
	}
	if in.Certifications != nil {
		certs = *in.Certifications
	}
	if in.Languages != nil {
		langs = *in.Languages
	}
	normalizeReferences(skills, certs, langs)
}

func normalizeEducations(items []EducationInput) {
	for i := range items {
		items[i].Institution = strings.TrimSpace(items[i].Institution)
		items[i].Specialty = strings.TrimSpace(items[i].Specialty)
	}
}

func normalizeWorkExperiences(items []WorkExperienceInput) {
	for i := range items {
		items[i].Employer = strings.TrimSpace(items[i].Employer)
		items[i].Position = strings.TrimSpace(items[i].Position)
		items[i].StartDate = dateOf(items[i].StartDate)
		items[i].EndDate = datePtr(items[i].EndDate)
		items[i].Responsibilities = normalizeOptionalString(items[i].Responsibilities)
	}
}

// normalizeReferences は参照 ID を正規形に揃え、大文字小文字違いの重複も unique で検出できるようにします。
func normalizeReferences(skills []SkillRef, certs []CertificationRef, langs []LanguageRef) {
	for i := range skills {
		skills[i].SkillID = canonicalID(skills[i].SkillID)
	}
	for i := range certs {
		certs[i].CertificationID = canonicalID(certs[i].CertificationID)
		certs[i].DateObtained = dateOf(certs[i].DateObtained)
	}
	for i := range langs {
		langs[i].LanguageID = canonicalID(langs[i].LanguageID)
	}
}

func canonicalID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed.String()
	}
	return trimmed
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id %q: %w", raw, ErrInvalidID)
	}
	return parsed.String(), nil
}

func normalizeOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := dateOf(*t)
	return &normalized
}

// SearchTerms は検索文字列を語に分割します。
func SearchTerms(raw string) []string {
	var terms []string
	for _, term := range searchTermSeparator.Split(strings.TrimSpace(raw), -1) {
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize < 0 || pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
