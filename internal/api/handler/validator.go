package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s./0-9]{6,}$`)

// NewValidator 註冊 phone 與 governorate 兩個自訂規則
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("governorate", func(fl validator.FieldLevel) bool {
		return model.IsGovernorate(fl.Field().String())
	})
	return v
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// fieldErrors 轉成 API 回傳格式，Field 為 json 路徑
func fieldErrors(err error) []dto.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		// 去掉最外層 struct 名稱
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		out = append(out, dto.FieldError{Field: ns, Rule: fe.Tag()})
	}
	return out
}
