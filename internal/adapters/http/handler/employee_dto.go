package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/employee"
)

const dateLayout = "2006-01-02"

type employeeRequest struct {
	FirstName       *string                            `json:"first_name"`
	LastName        *string                            `json:"last_name"`
	Patronymic      *string                            `json:"patronymic"`
	DateOfBirth     *string                            `json:"date_of_birth"`
	Gender          *string                            `json:"gender"`
	Nationality     *string                            `json:"nationality"`
	Email           *string                            `json:"email"`
	PhoneNumber     *string                            `json:"phone_number"`
	Address         *string                            `json:"address"`
	Family          *familyRequest                     `json:"family"`
	PassportInfo    *passportRequest                   `json:"passport_info"`
	Educations      listField[educationRequest]        `json:"educations"`
	WorkExperiences listField[workExperienceRequest]   `json:"work_experiences"`
	Skills          listField[skillRefRequest]         `json:"skills"`
	Certifications  listField[certificationRefRequest] `json:"certifications"`
	Languages       listField[languageRefRequest]      `json:"languages"`
}

// listField はリストセクションです。キーの省略と明示的な null を区別します。
type listField[T any] struct {
	Items []T
	Set   bool
	Null  bool
}

func (f *listField[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		f.Items = nil
		return nil
	}
	return json.Unmarshal(data, &f.Items)
}

// present は値付きで指定されていれば true です。null はフィールドエラーとして記録します。
func (f *listField[T]) present(p *dateParser, field string) bool {
	if f.Null {
		p.errs.Add(field, "this field may not be null")
		return false
	}
	return f.Set
}

type familyRequest struct {
	MaritalStatus    *string `json:"marital_status"`
	NumberOfChildren *int    `json:"number_of_children"`
}

type passportRequest struct {
	PassportNumber *string `json:"passport_number"`
	IssuedBy       *string `json:"issued_by"`
	DateIssued     *string `json:"date_issued"`
	DateExpiry     *string `json:"date_expiry"`
}

type educationRequest struct {
	EducationLevel string `json:"education_level"`
	Institution    string `json:"institution"`
	GraduationYear *int   `json:"graduation_year"`
	Specialty      string `json:"specialty"`
}

type workExperienceRequest struct {
	Employer         string  `json:"employer"`
	Position         string  `json:"position"`
	StartDate        string  `json:"start_date"`
	EndDate          *string `json:"end_date"`
	Responsibilities *string `json:"responsibilities"`
}

type skillRefRequest struct {
	SkillID string `json:"skill_id"`
}

type certificationRefRequest struct {
	CertificationID string `json:"certification_id"`
	DateObtained    string `json:"date_obtained"`
}

type languageRefRequest struct {
	LanguageID       string `json:"language_id"`
	ProficiencyLevel string `json:"proficiency_level"`
}

// dateParser は YYYY-MM-DD 形式の日付を解析し、変換時のエラーをフィールドパス付きで蓄積します。
type dateParser struct {
	errs employee.ValidationError
}

// value は必須日付を解析します。空文字はゼロ値になり、必須チェックはコアに任せます。
func (p *dateParser) value(field, raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		p.errs.Add(field, "date has wrong format, use YYYY-MM-DD")
		return time.Time{}
	}
	return t
}

// optional は省略可能な日付を解析します。null と空文字は nil です。
func (p *dateParser) optional(field string, raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t := p.value(field, *raw)
	return &t
}

// patch は部分更新用の日付を解析します。nil は変更なし、空文字はゼロ値で必須エラーになります。
func (p *dateParser) patch(field string, raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t := p.value(field, *raw)
	return &t
}

// toCreateInput は作成用の入力に変換します。日付形式と null のエラーは DecodeErrors に載せ、
// コアの検証結果と 1 つのレポートにまとめます。
func (r *employeeRequest) toCreateInput() employee.CreateEmployeeInput {
	p := &dateParser{}

	in := employee.CreateEmployeeInput{
		FirstName:   deref(r.FirstName),
		LastName:    deref(r.LastName),
		Patronymic:  r.Patronymic,
		DateOfBirth: p.value("date_of_birth", deref(r.DateOfBirth)),
		Gender:      employee.Gender(deref(r.Gender)),
		Nationality: deref(r.Nationality),
		Email:       deref(r.Email),
		PhoneNumber: deref(r.PhoneNumber),
		Address:     deref(r.Address),
	}

	if r.Family != nil {
		in.Family = &employee.FamilyInput{
			MaritalStatus:    employee.MaritalStatus(deref(r.Family.MaritalStatus)),
			NumberOfChildren: r.Family.NumberOfChildren,
		}
	}

	if r.PassportInfo != nil {
		in.Passport = &employee.PassportInput{
			PassportNumber: deref(r.PassportInfo.PassportNumber),
			IssuedBy:       deref(r.PassportInfo.IssuedBy),
			DateIssued:     p.value("passport_info.date_issued", deref(r.PassportInfo.DateIssued)),
			DateExpiry:     p.value("passport_info.date_expiry", deref(r.PassportInfo.DateExpiry)),
		}
	}

	if r.Educations.present(p, "educations") {
		in.Educations = toEducationInputs(r.Educations.Items)
	}
	if r.WorkExperiences.present(p, "work_experiences") {
		in.WorkExperiences = toWorkExperienceInputs(p, r.WorkExperiences.Items)
	}
	if r.Skills.present(p, "skills") {
		in.Skills = toSkillRefs(r.Skills.Items)
	}
	if r.Certifications.present(p, "certifications") {
		in.Certifications = toCertificationRefs(p, r.Certifications.Items)
	}
	if r.Languages.present(p, "languages") {
		in.Languages = toLanguageRefs(r.Languages.Items)
	}

	in.DecodeErrors = p.errs.Fields
	return in
}

func (r *employeeRequest) toUpdateInput(id string, partial bool) employee.UpdateEmployeeInput {
	p := &dateParser{}

	in := employee.UpdateEmployeeInput{
		ID:          id,
		Partial:     partial,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Patronymic:  r.Patronymic,
		DateOfBirth: p.patch("date_of_birth", r.DateOfBirth),
		Nationality: r.Nationality,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
	}

	if r.Gender != nil {
		g := employee.Gender(*r.Gender)
		in.Gender = &g
	}

	if r.Family != nil {
		patch := &employee.FamilyPatch{NumberOfChildren: r.Family.NumberOfChildren}
		if r.Family.MaritalStatus != nil {
			status := employee.MaritalStatus(*r.Family.MaritalStatus)
			patch.MaritalStatus = &status
		}
		in.Family = patch
	}

	if r.PassportInfo != nil {
		in.Passport = &employee.PassportPatch{
			PassportNumber: r.PassportInfo.PassportNumber,
			IssuedBy:       r.PassportInfo.IssuedBy,
			DateIssued:     p.patch("passport_info.date_issued", r.PassportInfo.DateIssued),
			DateExpiry:     p.patch("passport_info.date_expiry", r.PassportInfo.DateExpiry),
		}
	}

	if r.Educations.present(p, "educations") {
		items := toEducationInputs(r.Educations.Items)
		in.Educations = &items
	}
	if r.WorkExperiences.present(p, "work_experiences") {
		items := toWorkExperienceInputs(p, r.WorkExperiences.Items)
		in.WorkExperiences = &items
	}
	if r.Skills.present(p, "skills") {
		refs := toSkillRefs(r.Skills.Items)
		in.Skills = &refs
	}
	if r.Certifications.present(p, "certifications") {
		refs := toCertificationRefs(p, r.Certifications.Items)
		in.Certifications = &refs
	}
	if r.Languages.present(p, "languages") {
		refs := toLanguageRefs(r.Languages.Items)
		in.Languages = &refs
	}

	in.DecodeErrors = p.errs.Fields
	return in
}

func toEducationInputs(items []educationRequest) []employee.EducationInput {
	out := make([]employee.EducationInput, 0, len(items))
	for _, item := range items {
		out = append(out, employee.EducationInput{
			EducationLevel: employee.EducationLevel(item.EducationLevel),
			Institution:    item.Institution,
			GraduationYear: item.GraduationYear,
			Specialty:      item.Specialty,
		})
	}
	return out
}

func toWorkExperienceInputs(p *dateParser, items []workExperienceRequest) []employee.WorkExperienceInput {
	out := make([]employee.WorkExperienceInput, 0, len(items))
	for i, item := range items {
		out = append(out, employee.WorkExperienceInput{
			Employer:         item.Employer,
			Position:         item.Position,
			StartDate:        p.value(indexed("work_experiences", i, "start_date"), item.StartDate),
			EndDate:          p.optional(indexed("work_experiences", i, "end_date"), item.EndDate),
			Responsibilities: item.Responsibilities,
		})
	}
	return out
}

func toSkillRefs(items []skillRefRequest) []employee.SkillRef {
	out := make([]employee.SkillRef, 0, len(items))
	for _, item := range items {
		out = append(out, employee.SkillRef{SkillID: item.SkillID})
	}
	return out
}

func toCertificationRefs(p *dateParser, items []certificationRefRequest) []employee.CertificationRef {
	out := make([]employee.CertificationRef, 0, len(items))
	for i, item := range items {
		out = append(out, employee.CertificationRef{
			CertificationID: item.CertificationID,
			DateObtained:    p.value(indexed("certifications", i, "date_obtained"), item.DateObtained),
		})
	}
	return out
}

func toLanguageRefs(items []languageRefRequest) []employee.LanguageRef {
	out := make([]employee.LanguageRef, 0, len(items))
	for _, item := range items {
		out = append(out, employee.LanguageRef{
			LanguageID:       item.LanguageID,
			ProficiencyLevel: employee.ProficiencyLevel(item.ProficiencyLevel),
		})
	}
	return out
}

type employeeResponse struct {
	ID                 string                      `json:"id"`
	FirstName          string                      `json:"first_name"`
	LastName           string                      `json:"last_name"`
	Patronymic         *string                     `json:"patronymic"`
	DateOfBirth        string                      `json:"date_of_birth"`
	Gender             string                      `json:"gender"`
	Nationality        string                      `json:"nationality"`
	Email              string                      `json:"email"`
	PhoneNumber        string                      `json:"phone_number"`
	Address            string                      `json:"address"`
	Family             *familyResponse             `json:"family"`
	PassportInfo       *passportResponse           `json:"passport_info"`
	Educations         []educationResponse         `json:"educations"`
	WorkExperiences    []workExperienceResponse    `json:"work_experiences"`
	SkillsInfo         []skillInfoResponse         `json:"skills_info"`
	CertificationsInfo []certificationInfoResponse `json:"certifications_info"`
	LanguagesInfo      []languageInfoResponse      `json:"languages_info"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

type familyResponse struct {
	MaritalStatus    string `json:"marital_status"`
	NumberOfChildren int    `json:"number_of_children"`
}

type passportResponse struct {
	PassportNumber string `json:"passport_number"`
	IssuedBy       string `json:"issued_by"`
	DateIssued     string `json:"date_issued"`
	DateExpiry     string `json:"date_expiry"`
}

type educationResponse struct {
	EducationLevel string `json:"education_level"`
	Institution    string `json:"institution"`
	GraduationYear *int   `json:"graduation_year"`
	Specialty      string `json:"specialty"`
}

type workExperienceResponse struct {
	Employer         string  `json:"employer"`
	Position         string  `json:"position"`
	StartDate        string  `json:"start_date"`
	EndDate          *string `json:"end_date"`
	Responsibilities *string `json:"responsibilities"`
}

type catalogRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type skillInfoResponse struct {
	Skill catalogRefResponse `json:"skill"`
}

type certificationInfoResponse struct {
	Certification catalogRefResponse `json:"certification"`
	DateObtained  string             `json:"date_obtained"`
}

type languageInfoResponse struct {
	Language         catalogRefResponse `json:"language"`
	ProficiencyLevel string             `json:"proficiency_level"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	resp := employeeResponse{
		ID:                 e.ID,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Patronymic:         e.Patronymic,
		DateOfBirth:        formatDate(e.DateOfBirth),
		Gender:             string(e.Gender),
		Nationality:        e.Nationality,
		Email:              e.Email,
		PhoneNumber:        e.PhoneNumber,
		Address:            e.Address,
		Educations:         make([]educationResponse, 0, len(e.Educations)),
		WorkExperiences:    make([]workExperienceResponse, 0, len(e.WorkExperiences)),
		SkillsInfo:         make([]skillInfoResponse, 0, len(e.Skills)),
		CertificationsInfo: make([]certificationInfoResponse, 0, len(e.Certifications)),
		LanguagesInfo:      make([]languageInfoResponse, 0, len(e.Languages)),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}

	if e.Family != nil {
		resp.Family = &familyResponse{
			MaritalStatus:    string(e.Family.MaritalStatus),
			NumberOfChildren: e.Family.NumberOfChildren,
		}
	}

	if e.Passport != nil {
		resp.PassportInfo = &passportResponse{
			PassportNumber: e.Passport.PassportNumber,
			IssuedBy:       e.Passport.IssuedBy,
			DateIssued:     formatDate(e.Passport.DateIssued),
			DateExpiry:     formatDate(e.Passport.DateExpiry),
		}
	}

	for _, ed := range e.Educations {
		resp.Educations = append(resp.Educations, educationResponse{
			EducationLevel: string(ed.EducationLevel),
			Institution:    ed.Institution,
			GraduationYear: ed.GraduationYear,
			Specialty:      ed.Specialty,
		})
	}

	for _, w := range e.WorkExperiences {
		var end *string
		if w.EndDate != nil {
			formatted := formatDate(*w.EndDate)
			end = &formatted
		}
		resp.WorkExperiences = append(resp.WorkExperiences, workExperienceResponse{
			Employer:         w.Employer,
			Position:         w.Position,
			StartDate:        formatDate(w.StartDate),
			EndDate:          end,
			Responsibilities: w.Responsibilities,
		})
	}

	for _, s := range e.Skills {
		resp.SkillsInfo = append(resp.SkillsInfo, skillInfoResponse{Skill: catalogRefResponse(s.Skill)})
	}

	for _, c := range e.Certifications {
		resp.CertificationsInfo = append(resp.CertificationsInfo, certificationInfoResponse{
			Certification: catalogRefResponse(c.Certification),
			DateObtained:  formatDate(c.DateObtained),
		})
	}

	for _, l := range e.Languages {
		resp.LanguagesInfo = append(resp.LanguagesInfo, languageInfoResponse{
			Language:         catalogRefResponse(l.Language),
			ProficiencyLevel: string(l.ProficiencyLevel),
		})
	}

	return resp
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
