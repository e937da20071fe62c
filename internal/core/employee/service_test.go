package employee

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ogurasousui/hr-records/internal/core/catalog"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeCatalog struct {
	items map[catalog.Kind]map[string]string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{items: map[catalog.Kind]map[string]string{
		catalog.KindSkill:         {},
		catalog.KindCertification: {},
		catalog.KindLanguage:      {},
	}}
}

func (c *fakeCatalog) add(kind catalog.Kind, name string) string {
	id := uuid.NewString()
	c.items[kind][id] = name
	return id
}

func (c *fakeCatalog) FindByID(_ context.Context, kind catalog.Kind, id string) (*catalog.Item, error) {
	name, ok := c.items[kind][id]
	if !ok {
		return nil, catalog.ErrItemNotFound
	}
	return &catalog.Item{ID: id, Kind: kind, Name: name}, nil
}

// fakeEmployeeRepo は社員集約をメモリ上に保持します。
type fakeEmployeeRepo struct {
	catalog   *fakeCatalog
	employees map[string]*Employee
	order     []string
	calls     []string
}

func newFakeEmployeeRepo(c *fakeCatalog) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{catalog: c, employees: make(map[string]*Employee)}
}

func (r *fakeEmployeeRepo) snapshot() (map[string]*Employee, []string) {
	employees := make(map[string]*Employee, len(r.employees))
	for id, e := range r.employees {
		employees[id] = cloneEmployee(e)
	}
	return employees, append([]string(nil), r.order...)
}

func (r *fakeEmployeeRepo) get(id string) (*Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *Employee) (*Employee, error) {
	r.calls = append(r.calls, "create")
	clone := cloneEmployee(e)
	clone.ID = uuid.NewString()
	r.employees[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneEmployee(clone), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *Employee) error {
	r.calls = append(r.calls, "update")
	stored, err := r.get(e.ID)
	if err != nil {
		return err
	}
	for _, other := range r.employees {
		if other.ID != e.ID && other.Email == e.Email {
			return ErrEmailAlreadyExists
		}
	}
	stored.FirstName, stored.LastName, stored.Patronymic = e.FirstName, e.LastName, e.Patronymic
	stored.DateOfBirth, stored.Gender, stored.Nationality = e.DateOfBirth, e.Gender, e.Nationality
	stored.Email, stored.PhoneNumber, stored.Address = e.Email, e.PhoneNumber, e.Address
	stored.UpdatedAt = e.UpdatedAt
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, err := r.get(id); err != nil {
		return err
	}
	delete(r.employees, id)
	for idx, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*Employee, error) {
	e, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return cloneEmployee(e), nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter ListEmployeesFilter) ([]*Employee, string, error) {
	var matched []*Employee
	for _, id := range r.order {
		e := r.employees[id]
		if matchesAllTerms(e, filter.Terms) {
			matched = append(matched, cloneEmployee(e))
		}
	}
	if filter.Limit == 0 {
		return matched, "", nil
	}
	if filter.Offset > len(matched) {
		return []*Employee{}, "", nil
	}
	end := filter.Offset + filter.Limit
	next := ""
	if end < len(matched) {
		next = strconv.Itoa(end)
	} else {
		end = len(matched)
	}
	return matched[filter.Offset:end], next, nil
}

func matchesAllTerms(e *Employee, terms []string) bool {
	fields := []string{e.FirstName, e.LastName, e.Nationality, e.Email, e.PhoneNumber, e.Address, string(e.Gender), e.DateOfBirth.Format("2006-01-02")}
	if e.Patronymic != nil {
		fields = append(fields, *e.Patronymic)
	}
	if e.Family != nil {
		fields = append(fields, string(e.Family.MaritalStatus), strconv.Itoa(e.Family.NumberOfChildren))
	}
	if e.Passport != nil {
		fields = append(fields, e.Passport.PassportNumber, e.Passport.IssuedBy)
	}
	for _, s := range e.Skills {
		fields = append(fields, s.Skill.Name)
	}
	for _, c := range e.Certifications {
		fields = append(fields, c.Certification.Name)
	}
	for _, l := range e.Languages {
		fields = append(fields, l.Language.Name)
	}
	for _, term := range terms {
		found := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), strings.ToLower(term)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeEmployeeRepo) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for _, e := range r.employees {
		if e.ID != excludeID && e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmployeeRepo) PassportNumberTaken(_ context.Context, number, excludeID string) (bool, error) {
	for _, e := range r.employees {
		if e.ID != excludeID && e.Passport != nil && e.Passport.PassportNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmployeeRepo) CreateFamily(_ context.Context, employeeID string, f Family) error {
	r.calls = append(r.calls, "family")
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Family = &f
	return nil
}

func (r *fakeEmployeeRepo) UpdateFamily(_ context.Context, employeeID string, f Family) error {
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	if e.Family == nil {
		return &ReferenceNotFoundError{Entity: "family", ID: employeeID}
	}
	e.Family = &f
	return nil
}

func (r *fakeEmployeeRepo) CreatePassport(_ context.Context, employeeID string, p PassportInfo) error {
	r.calls = append(r.calls, "passport")
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Passport = &p
	return nil
}

func (r *fakeEmployeeRepo) UpdatePassport(_ context.Context, employeeID string, p PassportInfo) error {
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	if e.Passport == nil {
		return &ReferenceNotFoundError{Entity: "passport_info", ID: employeeID}
	}
	e.Passport = &p
	return nil
}

func (r *fakeEmployeeRepo) DeleteEducations(_ context.Context, employeeID string) error {
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Educations = nil
	return nil
}

func (r *fakeEmployeeRepo) CreateEducation(_ context.Context, employeeID string, edu Education) error {
	r.calls = append(r.calls, "education")
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	edu.ID = uuid.NewString()
	e.Educations = append(e.Educations, edu)
	return nil
}

func (r *fakeEmployeeRepo) DeleteWorkExperiences(_ context.Context, employeeID string) error {
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.WorkExperiences = nil
	return nil
}

func (r *fakeEmployeeRepo) CreateWorkExperience(_ context.Context, employeeID string, w WorkExperience) error {
	r.calls = append(r.calls, "work_experience")
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	w.ID = uuid.NewString()
	e.WorkExperiences = append(e.WorkExperiences, w)
	return nil
}

func (r *fakeEmployeeRepo) DeleteSkills(_ context.Context, employeeID string) error {
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Skills = nil
	return nil
}

func (r *fakeEmployeeRepo) AddSkill(_ context.Context, employeeID, skillID string) error {
	r.calls = append(r.calls, "skill")
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	for _, s := range e.Skills {
		if s.Skill.ID == skillID {
			return ErrDuplicateReference
		}
	}
	e.Skills = append(e.Skills, EmployeeSkill{Skill: CatalogRef{ID: skillID, Name: r.catalog.items[catalog.KindSkill][skillID]}})
	return nil
}

func (r *fakeEmployeeRepo) DeleteCertifications(_ context.Context, employeeID string) error {
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Certifications = nil
	return nil
}

func (r *fakeEmployeeRepo) AddCertification(_ context.Context, employeeID string, c EmployeeCertification) error {
	r.calls = append(r.calls, "certification")
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Certifications = append(e.Certifications, c)
	return nil
}

func (r *fakeEmployeeRepo) DeleteLanguages(_ context.Context, employeeID string) error {
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Languages = nil
	return nil
}

func (r *fakeEmployeeRepo) AddLanguage(_ context.Context, employeeID string, l EmployeeLanguage) error {
	r.calls = append(r.calls, "language")
	e, err := r.get(employeeID)
	if err != nil {
		return err
	}
	e.Languages = append(e.Languages, l)
	return nil
}

// snapshotTx は fn が失敗した場合にリポジトリの状態を巻き戻します。
type snapshotTx struct {
	repo *fakeEmployeeRepo
}

func (t snapshotTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (t snapshotTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	employees, order := t.repo.snapshot()
	if err := fn(ctx); err != nil {
		t.repo.employees, t.repo.order = employees, order
		return err
	}
	return nil
}

func cloneEmployee(e *Employee) *Employee {
	if e == nil {
		return nil
	}
	out := *e
	if e.Patronymic != nil {
		v := *e.Patronymic
		out.Patronymic = &v
	}
	if e.Family != nil {
		f := *e.Family
		out.Family = &f
	}
	if e.Passport != nil {
		p := *e.Passport
		out.Passport = &p
	}
	out.Educations = append([]Education(nil), e.Educations...)
	out.WorkExperiences = append([]WorkExperience(nil), e.WorkExperiences...)
	out.Skills = append([]EmployeeSkill(nil), e.Skills...)
	out.Certifications = append([]EmployeeCertification(nil), e.Certifications...)
	out.Languages = append([]EmployeeLanguage(nil), e.Languages...)
	return &out
}

var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	repo    *fakeEmployeeRepo
	catalog *fakeCatalog
	clock   *stubClock
	python  string
	golang  string
	aws     string
	english string
}

func newFixture() *fixture {
	c := newFakeCatalog()
	repo := newFakeEmployeeRepo(c)
	clk := &stubClock{now: testNow}
	return &fixture{
		svc:     NewService(repo, c, clk, snapshotTx{repo: repo}),
		repo:    repo,
		catalog: c,
		clock:   clk,
		python:  c.add(catalog.KindSkill, "Python"),
		golang:  c.add(catalog.KindSkill, "Go"),
		aws:     c.add(catalog.KindCertification, "AWS Solutions Architect"),
		english: c.add(catalog.KindLanguage, "English"),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func (f *fixture) validCreateInput() CreateEmployeeInput {
	end := date(2020, 6, 30)
	return CreateEmployeeInput{
		FirstName:   "Ivan",
		LastName:    "Petrov",
		Patronymic:  strPtr("Sergeevich"),
		DateOfBirth: date(1990, 4, 12),
		Gender:      GenderMale,
		Nationality: "Russian",
		Email:       "ivan.petrov@example.com",
		PhoneNumber: "+79161234567",
		Address:     "Moscow, Tverskaya 1",
		Family:      &FamilyInput{MaritalStatus: MaritalStatusMarried, NumberOfChildren: intPtr(2)},
		Passport: &PassportInput{
			PassportNumber: "AB1234567",
			IssuedBy:       "MVD 77",
			DateIssued:     date(2015, 1, 10),
			DateExpiry:     date(2025, 1, 10),
		},
		Educations: []EducationInput{
			{EducationLevel: EducationLevelBachelor, Institution: "MSU", GraduationYear: intPtr(2012), Specialty: "Mathematics"},
			{EducationLevel: EducationLevelMaster, Institution: "HSE", Specialty: "Data Science"},
		},
		WorkExperiences: []WorkExperienceInput{
			{Employer: "Yandex", Position: "Engineer", StartDate: date(2014, 9, 1), EndDate: &end},
		},
		Skills:         []SkillRef{{SkillID: f.python}, {SkillID: f.golang}},
		Certifications: []CertificationRef{{CertificationID: f.aws, DateObtained: date(2021, 5, 20)}},
		Languages:      []LanguageRef{{LanguageID: f.english, ProficiencyLevel: ProficiencyAdvanced}},
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range verr.Fields {
		if f.Field == field {
			return
		}
	}
	t.Fatalf("expected field error for %s, got %+v", field, verr.Fields)
}

func TestService_CreateEmployee_PersistsWholeAggregate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	in := f.validCreateInput()

	created, err := f.svc.CreateEmployee(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("expected generated id, got %q", created.ID)
	}
	if !created.CreatedAt.Equal(testNow) || !created.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected timestamps from clock, got %v %v", created.CreatedAt, created.UpdatedAt)
	}
	if created.Family == nil || created.Family.MaritalStatus != MaritalStatusMarried || created.Family.NumberOfChildren != 2 {
		t.Fatalf("unexpected family: %+v", created.Family)
	}
	if created.Passport == nil || created.Passport.PassportNumber != "AB1234567" {
		t.Fatalf("unexpected passport: %+v", created.Passport)
	}
	if len(created.Educations) != 2 || created.Educations[0].Institution != "MSU" || created.Educations[1].GraduationYear != nil {
		t.Fatalf("unexpected educations: %+v", created.Educations)
	}
	if len(created.WorkExperiences) != 1 || created.WorkExperiences[0].EndDate == nil || !created.WorkExperiences[0].EndDate.Equal(date(2020, 6, 30)) {
		t.Fatalf("unexpected work experiences: %+v", created.WorkExperiences)
	}
	if len(created.Skills) != 2 || created.Skills[0].Skill.Name != "Python" || created.Skills[1].Skill.Name != "Go" {
		t.Fatalf("unexpected skills: %+v", created.Skills)
	}
	if len(created.Certifications) != 1 || !created.Certifications[0].DateObtained.Equal(date(2021, 5, 20)) {
		t.Fatalf("unexpected certifications: %+v", created.Certifications)
	}
	if len(created.Languages) != 1 || created.Languages[0].ProficiencyLevel != ProficiencyAdvanced {
		t.Fatalf("unexpected languages: %+v", created.Languages)
	}

	wantOrder := []string{"create", "family", "passport", "education", "education", "work_experience", "skill", "skill", "certification", "language"}
	if !reflect.DeepEqual(f.repo.calls, wantOrder) {
		t.Fatalf("unexpected write order: %v", f.repo.calls)
	}
}

func TestService_CreateEmployee_DefaultsChildrenToZero(t *testing.T) {
	t.Parallel()

	f := newFixture()
	in := f.validCreateInput()
	in.Family = &FamilyInput{MaritalStatus: MaritalStatusSingle}

	created, err := f.svc.CreateEmployee(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	if created.Family.NumberOfChildren != 0 {
		t.Fatalf("expected default 0 children, got %d", created.Family.NumberOfChildren)
	}
}

func TestService_CreateEmployee_UnknownReferenceRollsBack(t *testing.T) {
	t.Parallel()

	f := newFixture()
	in := f.validCreateInput()
	missing := uuid.NewString()
	in.Languages = append(in.Languages, LanguageRef{LanguageID: missing, ProficiencyLevel: ProficiencyNative})

	_, err := f.svc.CreateEmployee(context.Background(), in)
	if !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
	var refErr *ReferenceNotFoundError
	if !errors.As(err, &refErr) || refErr.Entity != "language" || refErr.ID != missing {
		t.Fatalf("expected reference error naming language %s, got %v", missing, err)
	}
	if err.Error() != "referenced language id "+missing+" does not exist" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	if len(f.repo.employees) != 0 {
		t.Fatalf("expected no employee rows after rollback, got %d", len(f.repo.employees))
	}
}

func TestService_CreateEmployee_ValidationCollectsAllFailures(t *testing.T) {
	t.Parallel()

	f := newFixture()
	in := f.validCreateInput()
	in.FirstName = "I"
	in.DateOfBirth = testNow.AddDate(0, 0, 1)
	in.PhoneNumber = "12-34"
	in.Family.NumberOfChildren = intPtr(-1)
	in.Passport.PassportNumber = "ab1234567"
	in.Passport.DateExpiry = in.Passport.DateIssued
	in.Educations[0].GraduationYear = intPtr(testNow.Year() + 1)
	start := date(2019, 1, 1)
	before := date(2018, 12, 31)
	in.WorkExperiences[0] = WorkExperienceInput{Employer: "ACME", Position: "Dev", StartDate: start, EndDate: &before}
	in.Certifications[0].DateObtained = testNow.AddDate(0, 1, 0)
	in.Skills = append(in.Skills, SkillRef{SkillID: f.python})

	_, err := f.svc.CreateEmployee(context.Background(), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	for _, field := range []string{
		"first_name",
		"date_of_birth",
		"phone_number",
		"family.number_of_children",
		"passport_info.passport_number",
		"passport_info.date_expiry",
		"educations[0].graduation_year",
		"work_experiences[0].end_date",
		"certifications[0].date_obtained",
		"skills",
	} {
		assertFieldError(t, err, field)
	}

	if len(f.repo.calls) != 0 {
		t.Fatalf("expected no writes on validation failure, got %v", f.repo.calls)
	}
}

func TestService_CreateEmployee_MergesDecodeErrors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	in := f.validCreateInput()
	in.FirstName = "I"
	in.DateOfBirth = time.Time{}
	in.DecodeErrors = []FieldError{{Field: "date_of_birth", Message: "date has wrong format, use YYYY-MM-DD"}}

	_, err := f.svc.CreateEmployee(context.Background(), in)
	assertFieldError(t, err, "date_of_birth")
	assertFieldError(t, err, "first_name")

	var verr *ValidationError
	errors.As(err, &verr)
	var dob []string
	for _, fe := range verr.Fields {
		if fe.Field == "date_of_birth" {
			dob = append(dob, fe.Message)
		}
	}
	if len(dob) != 1 || dob[0] != "date has wrong format, use YYYY-MM-DD" {
		t.Fatalf("expected only the format error for date_of_birth, got %v", dob)
	}
	if len(f.repo.calls) != 0 {
		t.Fatalf("expected no writes on validation failure, got %v", f.repo.calls)
	}
}

func TestService_CreateEmployee_RequiresFamilyAndPassport(t *testing.T) {
	t.Parallel()

	f := newFixture()
	in := f.validCreateInput()
	in.Family = nil
	in.Passport = nil

	_, err := f.svc.CreateEmployee(context.Background(), in)
	assertFieldError(t, err, "family")
	assertFieldError(t, err, "passport_info")
}

func TestService_CreateEmployee_DateBoundaries(t *testing.T) {
	t.Parallel()

	f := newFixture()

	tomorrow := f.validCreateInput()
	tomorrow.DateOfBirth = date(2025, 3, 16)
	_, err := f.svc.CreateEmployee(context.Background(), tomorrow)
	assertFieldError(t, err, "date_of_birth")

	equal := f.validCreateInput()
	equal.Passport.DateExpiry = equal.Passport.DateIssued
	_, err = f.svc.CreateEmployee(context.Background(), equal)
	assertFieldError(t, err, "passport_info.date_expiry")

	nextDay := f.validCreateInput()
	nextDay.DateOfBirth = date(2025, 3, 15)
	nextDay.Passport.DateExpiry = nextDay.Passport.DateIssued.AddDate(0, 0, 1)
	if _, err := f.svc.CreateEmployee(context.Background(), nextDay); err != nil {
		t.Fatalf("expected expiry one day after issue and birth today to be accepted, got %v", err)
	}
}

func TestService_CreateEmployee_DuplicateEmailAndPassport(t *testing.T) {
	t.Parallel()

	f := newFixture()
	if _, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput()); err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	dupEmail := f.validCreateInput()
	dupEmail.Passport.PassportNumber = "CD7654321"
	if _, err := f.svc.CreateEmployee(context.Background(), dupEmail); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	dupPassport := f.validCreateInput()
	dupPassport.Email = "other@example.com"
	if _, err := f.svc.CreateEmployee(context.Background(), dupPassport); !errors.Is(err, ErrPassportNumberAlreadyExists) {
		t.Fatalf("expected ErrPassportNumberAlreadyExists, got %v", err)
	}
}

func TestService_UpdateEmployee_OmittedSectionsUnchanged(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	f.clock.now = testNow.Add(time.Hour)
	updated, err := f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:        created.ID,
		Partial:   true,
		FirstName: strPtr("  Pyotr "),
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if updated.FirstName != "Pyotr" {
		t.Fatalf("expected trimmed first name, got %q", updated.FirstName)
	}
	if !updated.UpdatedAt.Equal(f.clock.now) || !updated.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected timestamps: %v %v", updated.CreatedAt, updated.UpdatedAt)
	}
	if !reflect.DeepEqual(created.Educations, updated.Educations) ||
		!reflect.DeepEqual(created.WorkExperiences, updated.WorkExperiences) ||
		!reflect.DeepEqual(created.Skills, updated.Skills) ||
		!reflect.DeepEqual(created.Certifications, updated.Certifications) ||
		!reflect.DeepEqual(created.Languages, updated.Languages) ||
		!reflect.DeepEqual(created.Family, updated.Family) ||
		!reflect.DeepEqual(created.Passport, updated.Passport) {
		t.Fatalf("expected omitted sections to stay unchanged")
	}
}

func TestService_UpdateEmployee_EmptyListClearsSection(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	empty := []EducationInput{}
	updated, err := f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:         created.ID,
		Partial:    true,
		Educations: &empty,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if len(updated.Educations) != 0 {
		t.Fatalf("expected educations cleared, got %+v", updated.Educations)
	}
	if len(updated.WorkExperiences) != 1 {
		t.Fatalf("expected work experiences untouched, got %+v", updated.WorkExperiences)
	}
}

func TestService_UpdateEmployee_ReplacesListsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	status := MaritalStatusDivorced
	skills := []SkillRef{{SkillID: f.golang}}
	langs := []LanguageRef{{LanguageID: f.english, ProficiencyLevel: ProficiencyNative}}
	educations := []EducationInput{{EducationLevel: EducationLevelPhD, Institution: "MIPT", GraduationYear: intPtr(2020), Specialty: "Physics"}}
	in := UpdateEmployeeInput{
		ID:         created.ID,
		Partial:    true,
		Family:     &FamilyPatch{MaritalStatus: &status},
		Educations: &educations,
		Skills:     &skills,
		Languages:  &langs,
	}

	first, err := f.svc.UpdateEmployee(context.Background(), in)
	if err != nil {
		t.Fatalf("first UpdateEmployee returned error: %v", err)
	}
	second, err := f.svc.UpdateEmployee(context.Background(), in)
	if err != nil {
		t.Fatalf("second UpdateEmployee returned error: %v", err)
	}

	if first.Family.MaritalStatus != MaritalStatusDivorced || first.Family.NumberOfChildren != 2 {
		t.Fatalf("expected field-level family update, got %+v", first.Family)
	}
	if len(first.Skills) != 1 || first.Skills[0].Skill.ID != f.golang {
		t.Fatalf("expected skills replaced, got %+v", first.Skills)
	}
	if len(first.Certifications) != 1 {
		t.Fatalf("expected certifications untouched, got %+v", first.Certifications)
	}

	if !sameContent(first, second) {
		t.Fatalf("expected repeated update to produce the same state:\n%+v\n%+v", first, second)
	}
}

// sameContent は子レコードの ID を除いて集約を比較します。
func sameContent(a, b *Employee) bool {
	strip := func(e *Employee) *Employee {
		c := cloneEmployee(e)
		for i := range c.Educations {
			c.Educations[i].ID = ""
		}
		for i := range c.WorkExperiences {
			c.WorkExperiences[i].ID = ""
		}
		return c
	}
	return reflect.DeepEqual(strip(a), strip(b))
}

func TestService_UpdateEmployee_UnknownReferenceRollsBack(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	empty := []EducationInput{}
	skills := []SkillRef{{SkillID: uuid.NewString()}}
	_, err = f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:         created.ID,
		Partial:    true,
		FirstName:  strPtr("Changed"),
		Educations: &empty,
		Skills:     &skills,
	})
	if !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}

	after, err := f.svc.GetEmployee(context.Background(), GetEmployeeInput{ID: created.ID})
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if !reflect.DeepEqual(created, after) {
		t.Fatalf("expected aggregate untouched after rollback")
	}
}

func TestService_UpdateEmployee_PassportMergedDates(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	expiry := date(2015, 1, 10)
	_, err = f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:       created.ID,
		Partial:  true,
		Passport: &PassportPatch{DateExpiry: &expiry},
	})
	assertFieldError(t, err, "passport_info.date_expiry")

	later := date(2035, 1, 10)
	updated, err := f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:       created.ID,
		Partial:  true,
		Passport: &PassportPatch{DateExpiry: &later},
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if !updated.Passport.DateExpiry.Equal(later) || updated.Passport.IssuedBy != "MVD 77" {
		t.Fatalf("unexpected passport: %+v", updated.Passport)
	}
}

func TestService_UpdateEmployee_MissingOneToOneIsReferenceError(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	f.repo.employees[created.ID].Family = nil

	status := MaritalStatusSingle
	_, err = f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:      created.ID,
		Partial: true,
		Family:  &FamilyPatch{MaritalStatus: &status},
	})
	var refErr *ReferenceNotFoundError
	if !errors.As(err, &refErr) || refErr.Entity != "family" {
		t.Fatalf("expected family ReferenceNotFoundError, got %v", err)
	}
}

func TestService_UpdateEmployee_FullUpdateRequiresAllSections(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	_, err = f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:        created.ID,
		FirstName: strPtr("Pyotr"),
	})
	for _, field := range []string{"last_name", "email", "family", "passport_info", "educations", "work_experiences"} {
		assertFieldError(t, err, field)
	}
}

func TestService_UpdateEmployee_NullSectionReportedOnce(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	_, err = f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:           created.ID,
		Partial:      false,
		Email:        strPtr("not-an-email"),
		DecodeErrors: []FieldError{{Field: "educations", Message: "this field may not be null"}},
	})
	assertFieldError(t, err, "email")
	assertFieldError(t, err, "first_name")

	var verr *ValidationError
	errors.As(err, &verr)
	count := 0
	for _, fe := range verr.Fields {
		if fe.Field == "educations" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected a single educations error, got %+v", verr.Fields)
	}
}

func TestService_UpdateEmployee_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	first, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	other := f.validCreateInput()
	other.Email = "anna@example.com"
	other.Passport.PassportNumber = "XY7654321"
	second, err := f.svc.CreateEmployee(context.Background(), other)
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	_, err = f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: second.ID, Partial: true, Email: &first.Email})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	// 自分自身のメールアドレスは重複扱いしない
	if _, err := f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: second.ID, Partial: true, Email: &other.Email}); err != nil {
		t.Fatalf("expected own email to be accepted, got %v", err)
	}
}

func TestService_UpdateEmployee_NotFoundAndInvalidID(t *testing.T) {
	t.Parallel()

	f := newFixture()

	if _, err := f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: "42", Partial: true}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := f.svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: uuid.NewString(), Partial: true}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_DeleteEmployee(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if err := f.svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if _, err := f.svc.GetEmployee(context.Background(), GetEmployeeInput{ID: created.ID}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if err := f.svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: created.ID}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound on second delete, got %v", err)
	}
}

func TestService_ListEmployees_Search(t *testing.T) {
	t.Parallel()

	f := newFixture()
	married, err := f.svc.CreateEmployee(context.Background(), f.validCreateInput())
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	single := f.validCreateInput()
	single.FirstName = "Anna"
	single.LastName = "Smirnova"
	single.Patronymic = nil
	single.Gender = GenderFemale
	single.Email = "anna@example.com"
	single.Family = &FamilyInput{MaritalStatus: MaritalStatusSingle}
	single.Passport.PassportNumber = "XY7654321"
	single.Skills = nil
	if _, err := f.svc.CreateEmployee(context.Background(), single); err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	result, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{Search: "MARRIED"})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(result.Employees) != 1 || result.Employees[0].ID != married.ID {
		t.Fatalf("expected only the married employee, got %+v", result.Employees)
	}

	result, err = f.svc.ListEmployees(context.Background(), ListEmployeesInput{Search: "nonexistent"})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(result.Employees) != 0 {
		t.Fatalf("expected no employees, got %d", len(result.Employees))
	}

	all, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(all.Employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(all.Employees))
	}
}

func TestService_ListEmployees_Pagination(t *testing.T) {
	t.Parallel()

	f := newFixture()
	for i := 0; i < 3; i++ {
		in := f.validCreateInput()
		in.Email = "user" + strconv.Itoa(i) + "@example.com"
		in.Passport.PassportNumber = "AA000000" + strconv.Itoa(i)
		if _, err := f.svc.CreateEmployee(context.Background(), in); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	page1, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{PageSize: 2})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(page1.Employees) != 2 || page1.NextPageToken != "2" {
		t.Fatalf("unexpected first page: %d %q", len(page1.Employees), page1.NextPageToken)
	}

	page2, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{PageSize: 2, PageToken: page1.NextPageToken})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(page2.Employees) != 1 || page2.NextPageToken != "" {
		t.Fatalf("unexpected second page: %d %q", len(page2.Employees), page2.NextPageToken)
	}

	if _, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{PageSize: 500}); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{PageToken: "x"}); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestSearchTerms(t *testing.T) {
	t.Parallel()

	got := SearchTerms("  ivan,  python\tmarried ")
	want := []string{"ivan", "python", "married"}
	sort.Strings(got)
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected terms: %v", got)
	}
	if terms := SearchTerms("   "); len(terms) != 0 {
		t.Fatalf("expected no terms, got %v", terms)
	}
}
