package checkout

import (
	"errors"
	"fmt"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// ValidationError は入力項目の不備（項目単位で画面に出す）。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// 顧客情報（注文確定時に必須）
type CustomerInfo struct {
	Name       string `json:"name" validate:"required,max=255"`
	Phone      string `json:"phone" validate:"required,phone"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city,omitempty" validate:"max=255"`
	PostalCode string `json:"postal_code,omitempty" validate:"max=20"`
	Notes      string `json:"notes,omitempty" validate:"max=1000"`
}

// Trimmed は前後の空白を落としたコピー
func (c CustomerInfo) Trimmed() CustomerInfo {
	return CustomerInfo{
		Name:       strings.TrimSpace(c.Name),
		Phone:      strings.TrimSpace(c.Phone),
		Email:      strings.TrimSpace(c.Email),
		Address:    strings.TrimSpace(c.Address),
		City:       strings.TrimSpace(c.City),
		PostalCode: strings.TrimSpace(c.PostalCode),
		Notes:      strings.TrimSpace(c.Notes),
	}
}

// NewValidator は phone タグを登録した validator
func NewValidator() *validatorv10.Validate {
	v := validatorv10.New()
	_ = v.RegisterValidation("phone", func(fl validatorv10.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	return v
}

// IsValidPhone は数字が8〜15桁あるか
func IsValidPhone(s string) bool {
	n := len(NormalizePhone(s))
	return n >= 8 && n <= 15
}

// ValidateCustomer は必須項目を検証する。
// extended=true なら city / postal_code も必須。
func ValidateCustomer(v *validatorv10.Validate, info CustomerInfo, extended bool) error {
	info = info.Trimmed()
	if err := v.Struct(info); err != nil {
		return firstValidationError(err)
	}
	if extended {
		if info.City == "" {
			return &ValidationError{Field: "city", Message: "required"}
		}
		if info.PostalCode == "" {
			return &ValidationError{Field: "postal_code", Message: "required"}
		}
	}
	return nil
}

// firstValidationError は最初の項目エラーを ValidationError にする
func firstValidationError(err error) error {
	errs := FieldErrors(err)
	return &errs[0]
}

// FieldErrors は validator のエラーを項目ごとに平らにする
func FieldErrors(err error) []ValidationError {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return []ValidationError{{Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, ValidationError{Field: jsonFieldName(fe.Field()), Message: tagMessage(fe.Tag())})
	}
	return out
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "email":
		return "invalid email"
	case "phone":
		return "invalid phone number"
	case "max":
		return "too long"
	default:
		return "invalid"
	}
}

var jsonNames = map[string]string{
	"Name":       "name",
	"Phone":      "phone",
	"Email":      "email",
	"Address":    "address",
	"City":       "city",
	"PostalCode": "postal_code",
	"Notes":      "notes",
}

func jsonFieldName(field string) string {
	if n, ok := jsonNames[field]; ok {
		return n
	}
	return strings.ToLower(field)
}
