package validation

import (
	"sort"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"
)

// Form names accepted by POST /v1/forms/{form}/validate.
const (
	FormPedido        = "pedido"
	FormPedidoCriacao = "pedidoCriacao"
	FormPedidoGestao  = "pedidoGestao"
	FormRegistro      = "registro"
	FormLogin         = "login"
)

var forms = map[string]func() any{
	FormPedido:        func() any { return &domain.GenericOrderRequest{} },
	FormPedidoCriacao: func() any { return &domain.CreationOrderRequest{} },
	FormPedidoGestao:  func() any { return &domain.ManagementOrderRequest{} },
	FormRegistro:      func() any { return &domain.RegisterRequest{} },
	FormLogin:         func() any { return &domain.LoginRequest{} },
}

// NewForm returns an empty payload for the named form, ready to be decoded
// into.
func NewForm(name string) (any, bool) {
	f, ok := forms[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// FormNames lists the known forms, sorted.
func FormNames() []string {
	names := make([]string, 0, len(forms))
	for n := range forms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
