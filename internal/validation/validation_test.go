package validation_test

import (
	"strings"
	"testing"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
	"github.com/boddenberg/smartpresence-bfa-go/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreation() domain.CreationOrderRequest {
	return domain.CreationOrderRequest{
		FullName:         "Ana Maria",
		BusinessName:     "Padaria Sol",
		Email:            "ana@padaria.co.mz",
		Phone:            "841234567",
		WhatsApp:         "841234567",
		Location:         "Maputo",
		ProjectType:      "website",
		ProjectObjective: "vendas",
		HasLogo:          "sim",
		PackageID:        "pkg-1",
	}
}

func TestValidate_CreationFormPasses(t *testing.T) {
	v := validation.New()
	form := validCreation()

	res := v.Validate(&form)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.NoError(t, res.Err())
}

func TestValidate_EmptyCreationFormReportsEveryField(t *testing.T) {
	v := validation.New()

	res := v.Validate(domain.CreationOrderRequest{})
	require.False(t, res.Valid)

	want := validation.FieldErrors{
		"fullName":         "Nome deve ter pelo menos 3 caracteres",
		"businessName":     "Nome do negócio é obrigatório",
		"email":            "Email inválido",
		"phone":            "Telefone deve ter pelo menos 9 dígitos",
		"whatsapp":         "WhatsApp deve ter pelo menos 9 dígitos",
		"location":         "Localização é obrigatória",
		"projectType":      "Selecione o tipo de projeto",
		"projectObjective": "Selecione o objetivo do projeto",
		"hasLogo":          "Indique se tem logotipo",
		"packageId":        "Selecione um pacote",
	}
	assert.Equal(t, want, res.Errors)
}

func TestValidate_TrimsBeforeLengthChecks(t *testing.T) {
	v := validation.New()
	form := validCreation()
	form.FullName = "  Jo  "
	form.Email = "  ana@padaria.co.mz  "

	res := v.Validate(&form)
	require.False(t, res.Valid)
	assert.Equal(t, "Nome deve ter pelo menos 3 caracteres", res.Errors["fullName"])
	_, emailErr := res.Errors.Get("email")
	assert.False(t, emailErr, "surrounding spaces must not invalidate an email")

	// input is left untouched
	assert.Equal(t, "  Jo  ", form.FullName)
	assert.Equal(t, "  ana@padaria.co.mz  ", form.Email)
}

func TestValidate_FirstViolatedRuleWins(t *testing.T) {
	v := validation.New()
	form := validCreation()
	form.FullName = strings.Repeat("a", 101)

	res := v.Validate(form)
	assert.Equal(t, "Nome muito longo", res.Errors["fullName"])
	assert.Len(t, res.Errors, 1)
}

func TestValidate_ManagementRequiresOneType(t *testing.T) {
	v := validation.New()
	form := domain.ManagementOrderRequest{
		FullName:     "Carlos Mondlane",
		SiteName:     "Loja X",
		Email:        "carlos@lojax.co.mz",
		Phone:        "821234567",
		WhatsApp:     "821234567",
		BusinessType: "Retalho",
		Frequency:    "basico",
		PlanID:       "plan-1",
	}

	res := v.Validate(form)
	require.False(t, res.Valid)
	assert.Equal(t, validation.FieldErrors{"managementTypes": "Selecione pelo menos um tipo de gestão"}, res.Errors)

	form.ManagementTypes = []string{"conteudo"}
	assert.True(t, v.Validate(form).Valid)
}

func TestValidate_RegistrationPasswords(t *testing.T) {
	v := validation.New()
	form := domain.RegisterRequest{
		Name:            "Ana Maria",
		Email:           "ana@example.com",
		Password:        "123",
		ConfirmPassword: "124",
	}

	res := v.Validate(form)
	require.False(t, res.Valid)
	assert.Equal(t, "A senha deve ter pelo menos 6 caracteres.", res.Errors["password"])
	assert.Equal(t, "As senhas não coincidem.", res.Errors["confirmPassword"])

	var verr *domain.ErrValidation
	require.ErrorAs(t, res.Err(), &verr)
	assert.Equal(t, res.Errors, validation.FieldErrors(verr.Fields))
}

func TestFieldErrors_ClearAndClearAll(t *testing.T) {
	errs := validation.FieldErrors{"email": "Email inválido", "phone": "Telefone deve ter pelo menos 9 dígitos"}

	errs.Clear("email")
	_, ok := errs.Get("email")
	assert.False(t, ok)
	assert.Len(t, errs, 1)

	errs.ClearAll()
	assert.Empty(t, errs)
}

func TestNewForm(t *testing.T) {
	for _, name := range validation.FormNames() {
		form, ok := validation.NewForm(name)
		assert.True(t, ok, name)
		assert.NotNil(t, form, name)
	}

	_, ok := validation.NewForm("desconhecido")
	assert.False(t, ok)
}
