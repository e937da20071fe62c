package employee

import "time"

// Gender は性別を表します。
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// MaritalStatus は婚姻状況を表します。
type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "single"
	MaritalStatusMarried  MaritalStatus = "married"
	MaritalStatusDivorced MaritalStatus = "divorced"
	MaritalStatusWidowed  MaritalStatus = "widowed"
)

// EducationLevel は学歴の区分です。
type EducationLevel string

const (
	EducationLevelSecondary EducationLevel = "secondary"
	EducationLevelBachelor  EducationLevel = "bachelor"
	EducationLevelMaster    EducationLevel = "master"
	EducationLevelPhD       EducationLevel = "phd"
)

// ProficiencyLevel は言語の習熟度です。
type ProficiencyLevel string

const (
	ProficiencyBeginner     ProficiencyLevel = "beginner"
	ProficiencyIntermediate ProficiencyLevel = "intermediate"
	ProficiencyAdvanced     ProficiencyLevel = "advanced"
	ProficiencyNative       ProficiencyLevel = "native"
)

// Employee は社員集約のルートです。Family と Passport は 1:1、その他は 1:n の子レコードです。
type Employee struct {
	ID          string
	FirstName   string
	LastName    string
	Patronymic  *string
	DateOfBirth time.Time
	Gender      Gender
	Nationality string
	Email       string
	PhoneNumber string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Family          *Family
	Passport        *PassportInfo
	Educations      []Education
	WorkExperiences []WorkExperience
	Skills          []EmployeeSkill
	Certifications  []EmployeeCertification
	Languages       []EmployeeLanguage
}

// Family は社員の家族構成です。
type Family struct {
	MaritalStatus    MaritalStatus
	NumberOfChildren int
}

// PassportInfo はパスポート情報です。
type PassportInfo struct {
	PassportNumber string
	IssuedBy       string
	DateIssued     time.Time
	DateExpiry     time.Time
}

// Education は学歴です。
type Education struct {
	ID             string
	EducationLevel EducationLevel
	Institution    string
	GraduationYear *int
	Specialty      string
}

// WorkExperience は職歴です。
type WorkExperience struct {
	ID               string
	Employer         string
	Position         string
	StartDate        time.Time
	EndDate          *time.Time
	Responsibilities *string
}

// CatalogRef は参照先カタログ項目の ID と名前です。
type CatalogRef struct {
	ID   string
	Name string
}

// EmployeeSkill は社員とスキルの関連です。
type EmployeeSkill struct {
	Skill CatalogRef
}

// EmployeeCertification は社員と資格の関連です。
type EmployeeCertification struct {
	Certification CatalogRef
	DateObtained  time.Time
}

// EmployeeLanguage は社員と言語の関連です。
type EmployeeLanguage struct {
	Language         CatalogRef
	ProficiencyLevel ProficiencyLevel
}
