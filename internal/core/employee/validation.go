package employee

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern          = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	passportNumberPattern = regexp.MustCompile(`^[A-Z]{2}\d{7}$`)
)

const (
	tagNotFuture         = "notfuture"
	tagNotFutureYear     = "notfutureyear"
	tagPhone             = "phone"
	tagPassportNumber    = "passportno"
	tagExpiryAfterIssued = "expiry_after_issued"
	tagEndAfterStart     = "end_after_start"
)

// newValidator は社員入力用の validator を構築します。日付系のルールは clock の「今日」を基準にします。
func newValidator(clock Clock) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, tagNotFuture, func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !dateOf(t).After(dateOf(clock.Now()))
	})
	mustRegister(v, tagNotFutureYear, func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(clock.Now().Year())
	})
	mustRegister(v, tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, tagPassportNumber, func(fl validator.FieldLevel) bool {
		return passportNumberPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(PassportInput)
		if p.DateIssued.IsZero() || p.DateExpiry.IsZero() {
			return
		}
		if !p.DateExpiry.After(p.DateIssued) {
			sl.ReportError(p.DateExpiry, "date_expiry", "DateExpiry", tagExpiryAfterIssued, "")
		}
	}, PassportInput{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(PassportPatch)
		if p.DateIssued == nil || p.DateExpiry == nil {
			return
		}
		if !p.DateExpiry.After(*p.DateIssued) {
			sl.ReportError(p.DateExpiry, "date_expiry", "DateExpiry", tagExpiryAfterIssued, "")
		}
	}, PassportPatch{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		w := sl.Current().Interface().(WorkExperienceInput)
		if w.EndDate == nil || w.StartDate.IsZero() {
			return
		}
		if w.EndDate.Before(w.StartDate) {
			sl.ReportError(w.EndDate, "end_date", "EndDate", tagEndAfterStart, "")
		}
	}, WorkExperienceInput{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("employee: register validation %s: %v", tag, err))
	}
}

// validateStruct は全フィールドを検証し、失敗を ValidationError にまとめて返します。
func (s *Service) validateStruct(in any) *ValidationError {
	verr := &ValidationError{}

	err := s.validate.Struct(in)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("non_field_errors", err.Error())
		return verr
	}

	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe.Namespace()), messageFor(fe))
	}
	return verr
}

// collectErrors は変換時のエラーを先頭に置き、構造体検証の結果を続けます。
// 変換エラーのあるフィールドはゼロ値で届くため、同じパスの検証エラーは重複として捨てます。
func (s *Service) collectErrors(in any, decoded []FieldError) *ValidationError {
	verr := &ValidationError{Fields: append([]FieldError(nil), decoded...)}

	seen := make(map[string]struct{}, len(decoded))
	for _, fe := range decoded {
		seen[fe.Field] = struct{}{}
	}
	for _, fe := range s.validateStruct(in).Fields {
		if _, dup := seen[fe.Field]; dup {
			continue
		}
		verr.Fields = append(verr.Fields, fe)
	}
	return verr
}

// fieldPath は "CreateEmployeeInput.educations[0].graduation_year" から先頭の型名を取り除きます。
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if isNumericKind(fe.Kind()) {
			return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		if isNumericKind(fe.Kind()) {
			return fmt.Sprintf("must be less than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "email":
		return "enter a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "must be a valid UUID"
	case "unique":
		return "each referenced id may appear only once"
	case tagPhone:
		return "phone number must be entered in the format '+999999999', up to 15 digits"
	case tagPassportNumber:
		return "passport number must consist of two uppercase letters followed by 7 digits"
	case tagNotFuture:
		return "date cannot be in the future"
	case tagNotFutureYear:
		return "year cannot be in the future"
	case tagExpiryAfterIssued:
		return "expiry date must be later than the issue date"
	case tagEndAfterStart:
		return "end date cannot be earlier than the start date"
	default:
		return "invalid value"
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// requireFullUpdate は PUT（全体更新）で省略できない項目を検査します。
func requireFullUpdate(in UpdateEmployeeInput, verr *ValidationError) {
	required := []struct {
		field   string
		missing bool
	}{
		{"first_name", in.FirstName == nil},
		{"last_name", in.LastName == nil},
		{"date_of_birth", in.DateOfBirth == nil},
		{"gender", in.Gender == nil},
		{"nationality", in.Nationality == nil},
		{"email", in.Email == nil},
		{"phone_number", in.PhoneNumber == nil},
		{"address", in.Address == nil},
		{"family", in.Family == nil},
		{"passport_info", in.Passport == nil},
		{"educations", in.Educations == nil},
		{"work_experiences", in.WorkExperiences == nil},
	}
	for _, r := range required {
		if r.missing && !verr.has(r.field) {
			verr.Add(r.field, "this field is required")
		}
	}

	if in.Family != nil && in.Family.MaritalStatus == nil {
		verr.Add("family.marital_status", "this field is required")
	}
	if p := in.Passport; p != nil {
		if p.PassportNumber == nil {
			verr.Add("passport_info.passport_number", "this field is required")
		}
		if p.IssuedBy == nil {
			verr.Add("passport_info.issued_by", "this field is required")
		}
		if p.DateIssued == nil {
			verr.Add("passport_info.date_issued", "this field is required")
		}
		if p.DateExpiry == nil {
			verr.Add("passport_info.date_expiry", "this field is required")
		}
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
