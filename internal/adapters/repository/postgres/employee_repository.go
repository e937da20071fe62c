package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/hr-records/internal/core/employee"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

const employeeColumns = `e.id, e.first_name, e.last_name, e.patronymic, e.date_of_birth, e.gender, e.nationality,
               e.email, e.phone_number, e.address, e.created_at, e.updated_at,
               f.marital_status, f.number_of_children,
               p.passport_number, p.issued_by, p.date_issued, p.date_expiry`

const employeeFrom = `
          FROM employees e
          LEFT JOIN families f ON f.employee_id = e.id
          LEFT JOIN passports p ON p.employee_id = e.id`

// searchTermCondition は 1 つの検索語に対する条件です。{p} はプレースホルダに置換されます。
const searchTermCondition = `(
               e.first_name ILIKE {p} OR e.last_name ILIKE {p} OR e.patronymic ILIKE {p}
            OR e.date_of_birth::text ILIKE {p} OR e.gender ILIKE {p} OR e.nationality ILIKE {p}
            OR e.email ILIKE {p} OR e.phone_number ILIKE {p} OR e.address ILIKE {p}
            OR f.marital_status ILIKE {p} OR f.number_of_children::text ILIKE {p}
            OR p.passport_number ILIKE {p} OR p.issued_by ILIKE {p}
            OR p.date_issued::text ILIKE {p} OR p.date_expiry::text ILIKE {p}
            OR EXISTS (SELECT 1 FROM employee_skills es JOIN skills s ON s.id = es.skill_id
                        WHERE es.employee_id = e.id AND s.name ILIKE {p})
            OR EXISTS (SELECT 1 FROM employee_certifications ec JOIN certifications c ON c.id = ec.certification_id
                        WHERE ec.employee_id = e.id AND c.name ILIKE {p})
            OR EXISTS (SELECT 1 FROM employee_languages el JOIN languages l ON l.id = el.language_id
                        WHERE el.employee_id = e.id AND l.name ILIKE {p})
        )`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// checkConstraintFields はチェック制約名と検証エラーのフィールドパスの対応です。
var checkConstraintFields = map[string]employee.FieldError{
	"employees_gender_check":               {Field: "gender", Message: "must be one of: male, female"},
	"employees_names_check":                {Field: "non_field_errors", Message: "first and last name must be at least 2 characters long"},
	"families_marital_status_check":        {Field: "family.marital_status", Message: "must be one of: single, married, divorced, widowed"},
	"families_number_of_children_check":    {Field: "family.number_of_children", Message: "must be greater than or equal to 0"},
	"passports_dates_check":                {Field: "passport_info.date_expiry", Message: "expiry date must be later than the issue date"},
	"educations_level_check":               {Field: "educations", Message: "education_level is not a valid choice"},
	"educations_graduation_year_check":     {Field: "educations", Message: "graduation_year must be greater than or equal to 0"},
	"work_experiences_dates_check":         {Field: "work_experiences", Message: "end date cannot be earlier than the start date"},
	"employee_languages_proficiency_check": {Field: "languages", Message: "proficiency_level is not a valid choice"},
}

// EmployeeRepository は PostgreSQL を利用した社員集約永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員本体を新規作成します。子レコードは別メソッドで追加します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (first_name, last_name, patronymic, date_of_birth, gender, nationality,
                               email, phone_number, address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at
    `,
		e.FirstName,
		e.LastName,
		nullableString(e.Patronymic),
		dateValue(e.DateOfBirth),
		string(e.Gender),
		e.Nationality,
		e.Email,
		e.PhoneNumber,
		e.Address,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created := *e
	created.Family, created.Passport = nil, nil
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return &created, nil
}

// Update は社員本体のスカラー項目を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE employees
           SET first_name = $1,
               last_name = $2,
               patronymic = $3,
               date_of_birth = $4,
               gender = $5,
               nationality = $6,
               email = $7,
               phone_number = $8,
               address = $9,
               updated_at = $10
         WHERE id = $11
    `,
		e.FirstName,
		e.LastName,
		nullableString(e.Patronymic),
		dateValue(e.DateOfBirth),
		string(e.Gender),
		e.Nationality,
		e.Email,
		e.PhoneNumber,
		e.Address,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete は社員を削除します。子レコードは ON DELETE CASCADE で削除されます。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員集約を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+employeeFrom+`
         WHERE e.id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}

	if err := loadChildren(ctx, exec, []*employee.Employee{found}); err != nil {
		return nil, err
	}
	return found, nil
}

// List は社員集約の一覧を作成日時順に取得します。Limit が 0 の場合は件数を制限しません。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if filter.Limit < 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	args := make([]any, 0, len(filter.Terms)+2)
	conditions := make([]string, 0, len(filter.Terms))

	for _, term := range filter.Terms {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, strings.ReplaceAll(searchTermCondition, "{p}", placeholder))
		args = append(args, likePattern(term))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "\n         WHERE " + strings.Join(conditions, "\n           AND ")
	}

	pagination := ""
	if filter.Limit > 0 {
		pagination += "\n         LIMIT $" + strconv.Itoa(len(args)+1)
		args = append(args, filter.Limit+1)
	}
	pagination += "\n        OFFSET $" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + employeeColumns + employeeFrom + whereClause + `
         ORDER BY e.created_at, e.id` + pagination + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateEmployeePgError(err)
	}

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		found, err := scanEmployee(rows)
		if err != nil {
			rows.Close()
			return nil, "", translateEmployeePgError(err)
		}
		employees = append(employees, found)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, "", translateEmployeePgError(err)
	}

	var nextToken string
	if filter.Limit > 0 && len(employees) > filter.Limit {
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
		employees = employees[:filter.Limit]
	}

	if err := loadChildren(ctx, exec, employees); err != nil {
		return nil, "", err
	}

	return employees, nextToken, nil
}

// EmailTaken は excludeID 以外の社員が email を使用しているか判定します。
func (r *EmployeeRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var taken bool
	if err := exec.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1 AND id::text <> $2)
    `, email, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// PassportNumberTaken は excludeID 以外の社員がパスポート番号を使用しているか判定します。
func (r *EmployeeRepository) PassportNumberTaken(ctx context.Context, number, excludeID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var taken bool
	if err := exec.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM passports WHERE passport_number = $1 AND employee_id::text <> $2)
    `, number, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// CreateFamily は家族情報を作成します。
func (r *EmployeeRepository) CreateFamily(ctx context.Context, employeeID string, f employee.Family) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO families (employee_id, marital_status, number_of_children)
        VALUES ($1, $2, $3)
    `, employeeID, string(f.MaritalStatus), f.NumberOfChildren); err != nil {
		return translateEmployeePgError(err)
	}
	return nil
}

// UpdateFamily は既存の家族情報を更新します。
func (r *EmployeeRepository) UpdateFamily(ctx context.Context, employeeID string, f employee.Family) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE families
           SET marital_status = $1,
               number_of_children = $2
         WHERE employee_id = $3
    `, string(f.MaritalStatus), f.NumberOfChildren, employeeID)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return &employee.ReferenceNotFoundError{Entity: "family", ID: employeeID}
	}
	return nil
}

// CreatePassport はパスポート情報を作成します。
func (r *EmployeeRepository) CreatePassport(ctx context.Context, employeeID string, p employee.PassportInfo) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO passports (employee_id, passport_number, issued_by, date_issued, date_expiry)
        VALUES ($1, $2, $3, $4, $5)
    `, employeeID, p.PassportNumber, p.IssuedBy, dateValue(p.DateIssued), dateValue(p.DateExpiry)); err != nil {
		return translateEmployeePgError(err)
	}
	return nil
}

// UpdatePassport は既存のパスポート情報を更新します。
func (r *EmployeeRepository) UpdatePassport(ctx context.Context, employeeID string, p employee.PassportInfo) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE passports
           SET passport_number = $1,
               issued_by = $2,
               date_issued = $3,
               date_expiry = $4
         WHERE employee_id = $5
    `, p.PassportNumber, p.IssuedBy, dateValue(p.DateIssued), dateValue(p.DateExpiry), employeeID)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return &employee.ReferenceNotFoundError{Entity: "passport_info", ID: employeeID}
	}
	return nil
}

func (r *EmployeeRepository) DeleteEducations(ctx context.Context, employeeID string) error {
	return r.deleteChildren(ctx, `DELETE FROM educations WHERE employee_id = $1`, employeeID)
}

// CreateEducation は学歴を 1 件追加します。
func (r *EmployeeRepository) CreateEducation(ctx context.Context, employeeID string, edu employee.Education) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO educations (employee_id, education_level, institution, graduation_year, specialty)
        VALUES ($1, $2, $3, $4, $5)
    `, employeeID, string(edu.EducationLevel), edu.Institution, nullableInt(edu.GraduationYear), edu.Specialty); err != nil {
		return translateEmployeePgError(err)
	}
	return nil
}

func (r *EmployeeRepository) DeleteWorkExperiences(ctx context.Context, employeeID string) error {
	return r.deleteChildren(ctx, `DELETE FROM work_experiences WHERE employee_id = $1`, employeeID)
}

// CreateWorkExperience は職歴を 1 件追加します。
func (r *EmployeeRepository) CreateWorkExperience(ctx context.Context, employeeID string, w employee.WorkExperience) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO work_experiences (employee_id, employer, position, start_date, end_date, responsibilities)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, employeeID, w.Employer, w.Position, dateValue(w.StartDate), nullableTime(w.EndDate), nullableString(w.Responsibilities)); err != nil {
		return translateEmployeePgError(err)
	}
	return nil
}

func (r *EmployeeRepository) DeleteSkills(ctx context.Context, employeeID string) error {
	return r.deleteChildren(ctx, `DELETE FROM employee_skills WHERE employee_id = $1`, employeeID)
}

// AddSkill は社員にスキルを関連付けます。
func (r *EmployeeRepository) AddSkill(ctx context.Context, employeeID, skillID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO employee_skills (employee_id, skill_id)
        VALUES ($1, $2)
    `, employeeID, skillID); err != nil {
		return translateReferencePgError(err, "skill", skillID)
	}
	return nil
}

func (r *EmployeeRepository) DeleteCertifications(ctx context.Context, employeeID string) error {
	return r.deleteChildren(ctx, `DELETE FROM employee_certifications WHERE employee_id = $1`, employeeID)
}

// AddCertification は社員に資格を関連付けます。
func (r *EmployeeRepository) AddCertification(ctx context.Context, employeeID string, c employee.EmployeeCertification) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO employee_certifications (employee_id, certification_id, date_obtained)
        VALUES ($1, $2, $3)
    `, employeeID, c.Certification.ID, dateValue(c.DateObtained)); err != nil {
		return translateReferencePgError(err, "certification", c.Certification.ID)
	}
	return nil
}

func (r *EmployeeRepository) DeleteLanguages(ctx context.Context, employeeID string) error {
	return r.deleteChildren(ctx, `DELETE FROM employee_languages WHERE employee_id = $1`, employeeID)
}

// AddLanguage は社員に言語を関連付けます。
func (r *EmployeeRepository) AddLanguage(ctx context.Context, employeeID string, l employee.EmployeeLanguage) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO employee_languages (employee_id, language_id, proficiency_level)
        VALUES ($1, $2, $3)
    `, employeeID, l.Language.ID, string(l.ProficiencyLevel)); err != nil {
		return translateReferencePgError(err, "language", l.Language.ID)
	}
	return nil
}

func (r *EmployeeRepository) deleteChildren(ctx context.Context, query, employeeID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, query, employeeID); err != nil {
		return translateEmployeePgError(err)
	}
	return nil
}

// loadChildren は 1:n の子レコードを社員 ID の配列でまとめて読み込みます。
func loadChildren(ctx context.Context, exec pgdb.Queryer, employees []*employee.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	byID := make(map[string]*employee.Employee, len(employees))
	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	if err := queryChildren(ctx, exec, `
        SELECT employee_id, id, education_level, institution, graduation_year, specialty
          FROM educations
         WHERE employee_id = ANY($1::uuid[])
         ORDER BY seq
    `, ids, func(rows pgx.Rows) error {
		var (
			employeeID string
			edu        employee.Education
			level      string
			year       sql.NullInt32
		)
		if err := rows.Scan(&employeeID, &edu.ID, &level, &edu.Institution, &year, &edu.Specialty); err != nil {
			return err
		}
		edu.EducationLevel = employee.EducationLevel(level)
		if year.Valid {
			v := int(year.Int32)
			edu.GraduationYear = &v
		}
		if e, ok := byID[employeeID]; ok {
			e.Educations = append(e.Educations, edu)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := queryChildren(ctx, exec, `
        SELECT employee_id, id, employer, position, start_date, end_date, responsibilities
          FROM work_experiences
         WHERE employee_id = ANY($1::uuid[])
         ORDER BY seq
    `, ids, func(rows pgx.Rows) error {
		var (
			employeeID       string
			w                employee.WorkExperience
			endDate          sql.NullTime
			responsibilities sql.NullString
		)
		if err := rows.Scan(&employeeID, &w.ID, &w.Employer, &w.Position, &w.StartDate, &endDate, &responsibilities); err != nil {
			return err
		}
		w.EndDate = timePtr(endDate)
		w.Responsibilities = stringPtr(responsibilities)
		if e, ok := byID[employeeID]; ok {
			e.WorkExperiences = append(e.WorkExperiences, w)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := queryChildren(ctx, exec, `
        SELECT es.employee_id, s.id, s.name
          FROM employee_skills es
          JOIN skills s ON s.id = es.skill_id
         WHERE es.employee_id = ANY($1::uuid[])
         ORDER BY es.seq
    `, ids, func(rows pgx.Rows) error {
		var (
			employeeID string
			ref        employee.CatalogRef
		)
		if err := rows.Scan(&employeeID, &ref.ID, &ref.Name); err != nil {
			return err
		}
		if e, ok := byID[employeeID]; ok {
			e.Skills = append(e.Skills, employee.EmployeeSkill{Skill: ref})
		}
		return nil
	}); err != nil {
		return err
	}

	if err := queryChildren(ctx, exec, `
        SELECT ec.employee_id, c.id, c.name, ec.date_obtained
          FROM employee_certifications ec
          JOIN certifications c ON c.id = ec.certification_id
         WHERE ec.employee_id = ANY($1::uuid[])
         ORDER BY ec.seq
    `, ids, func(rows pgx.Rows) error {
		var (
			employeeID string
			cert       employee.EmployeeCertification
		)
		if err := rows.Scan(&employeeID, &cert.Certification.ID, &cert.Certification.Name, &cert.DateObtained); err != nil {
			return err
		}
		if e, ok := byID[employeeID]; ok {
			e.Certifications = append(e.Certifications, cert)
		}
		return nil
	}); err != nil {
		return err
	}

	return queryChildren(ctx, exec, `
        SELECT el.employee_id, l.id, l.name, el.proficiency_level
          FROM employee_languages el
          JOIN languages l ON l.id = el.language_id
         WHERE el.employee_id = ANY($1::uuid[])
         ORDER BY el.seq
    `, ids, func(rows pgx.Rows) error {
		var (
			employeeID string
			lang       employee.EmployeeLanguage
			level      string
		)
		if err := rows.Scan(&employeeID, &lang.Language.ID, &lang.Language.Name, &level); err != nil {
			return err
		}
		lang.ProficiencyLevel = employee.ProficiencyLevel(level)
		if e, ok := byID[employeeID]; ok {
			e.Languages = append(e.Languages, lang)
		}
		return nil
	})
}

func queryChildren(ctx context.Context, exec pgdb.Queryer, query string, ids []string, scan func(pgx.Rows) error) error {
	rows, err := exec.Query(ctx, query, ids)
	if err != nil {
		return translateEmployeePgError(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e                    employee.Employee
		patronymic           sql.NullString
		gender               string
		maritalStatus        sql.NullString
		numberOfChildren     sql.NullInt32
		passportNumber       sql.NullString
		issuedBy             sql.NullString
		dateIssued           sql.NullTime
		dateExpiry           sql.NullTime
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&patronymic,
		&e.DateOfBirth,
		&gender,
		&e.Nationality,
		&e.Email,
		&e.PhoneNumber,
		&e.Address,
		&createdAt,
		&updatedAt,
		&maritalStatus,
		&numberOfChildren,
		&passportNumber,
		&issuedBy,
		&dateIssued,
		&dateExpiry,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	e.Patronymic = stringPtr(patronymic)
	e.Gender = employee.Gender(gender)
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt

	if maritalStatus.Valid {
		e.Family = &employee.Family{
			MaritalStatus:    employee.MaritalStatus(maritalStatus.String),
			NumberOfChildren: int(numberOfChildren.Int32),
		}
	}
	if passportNumber.Valid {
		e.Passport = &employee.PassportInfo{
			PassportNumber: passportNumber.String,
			IssuedBy:       issuedBy.String,
			DateIssued:     dateIssued.Time,
			DateExpiry:     dateExpiry.Time,
		}
	}

	return &e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		switch pgErr.ConstraintName {
		case "employees_email_key":
			return employee.ErrEmailAlreadyExists
		case "passports_passport_number_key":
			return employee.ErrPassportNumberAlreadyExists
		case "employee_skills_pkey", "employee_certifications_pkey", "employee_languages_pkey":
			return employee.ErrDuplicateReference
		}
	case foreignKeyViolationCode:
		if strings.HasSuffix(pgErr.ConstraintName, "_employee_id_fkey") {
			return employee.ErrEmployeeNotFound
		}
	case checkViolationCode:
		verr := &employee.ValidationError{}
		if fe, ok := checkConstraintFields[pgErr.ConstraintName]; ok {
			verr.Add(fe.Field, fe.Message)
		} else {
			verr.Add("non_field_errors", "violates constraint "+pgErr.ConstraintName)
		}
		return verr
	}

	return err
}

// translateReferencePgError は関連テーブルへの挿入エラーを参照エラーに変換します。
func translateReferencePgError(err error, entity, id string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode &&
		!strings.HasSuffix(pgErr.ConstraintName, "_employee_id_fkey") {
		return &employee.ReferenceNotFoundError{Entity: entity, ID: id}
	}
	return translateEmployeePgError(err)
}

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return dateValue(*value)
}

func dateValue(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time
	return &v
}
