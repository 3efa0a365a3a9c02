package handler

import (
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestPhoneRule(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		phone string
		valid bool
	}{
		{phone: "+216 20 123 456", valid: true},
		{phone: "20123456", valid: true},
		{phone: "(216) 20-123-456", valid: true},
		{phone: "+33.6.12.34.56.78", valid: true},
		{phone: "12345", valid: false},
		{phone: "phone", valid: false},
		{phone: "+216 abc 123", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.phone, func(t *testing.T) {
			err := v.Var(tc.phone, "phone")
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestGovernorateRule(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Var("ben_arous", "governorate"))
	require.NoError(t, v.Var("tunis", "governorate"))
	require.Error(t, v.Var("Tunis", "governorate"))
	require.Error(t, v.Var("alger", "governorate"))
	require.Len(t, model.Governorates(), 24)
}

func TestCheckoutNormalizeAndValidate(t *testing.T) {
	v := NewValidator()

	req := dto.CheckoutDTO{
		CustomerInfo: model.CustomerInfo{
			FirstName: " Amel ",
			LastName:  "Ben Ali",
			Email:     " amel@example.com ",
			Phone:     "+216 20 123 456 ",
		},
		ShippingAddress: model.ShippingAddress{
			Address: "12 Rue de Marseille",
			City:    "Tunis",
			State:   " sousse",
		},
	}
	req.Normalize()
	require.NoError(t, v.Struct(req))
	require.Equal(t, "Amel", req.CustomerInfo.FirstName)
	require.Equal(t, "sousse", req.ShippingAddress.State)

	req.ShippingAddress.Address = ""
	req.ShippingAddress.City = ""
	err := v.Struct(req)
	require.Error(t, err)
	require.ElementsMatch(t, []dto.FieldError{
		{Field: "shippingAddress.address", Rule: "required"},
		{Field: "shippingAddress.city", Rule: "required"},
	}, fieldErrors(err))
}
