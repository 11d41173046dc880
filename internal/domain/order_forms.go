package domain

// ============================================================
// Order forms: request bodies of the three submission variants
// ============================================================
//
// Rules live in `validate` tags (see internal/validation); `msg` maps each
// rule to the message shown next to the field.

// "Outro" choice: the free-text companion field replaces it.
const ChoiceOther = "outro"

// Submission carries the consent fields shared by every order form.
type Submission struct {
	AcceptTerms      bool   `json:"acceptTerms"`
	DigitalSignature string `json:"digitalSignature"`
}

// CreationOrderRequest is the body of POST /v1/orders/criacao.
type CreationOrderRequest struct {
	FullName     string `json:"fullName" validate:"tmin=3,tmax=100" msg:"tmin=Nome deve ter pelo menos 3 caracteres;tmax=Nome muito longo"`
	BusinessName string `json:"businessName" validate:"tmin=2,tmax=100" msg:"tmin=Nome do negócio é obrigatório;tmax=Nome muito longo"`
	Email        string `json:"email" validate:"temail" msg:"temail=Email inválido"`
	Phone        string `json:"phone" validate:"tmin=9" msg:"tmin=Telefone deve ter pelo menos 9 dígitos"`
	WhatsApp     string `json:"whatsapp" validate:"tmin=9" msg:"tmin=WhatsApp deve ter pelo menos 9 dígitos"`
	Location     string `json:"location" validate:"tmin=3" msg:"tmin=Localização é obrigatória"`
	NUIT         string `json:"nuit"`

	ProjectType           string `json:"projectType" validate:"required" msg:"required=Selecione o tipo de projeto"`
	ProjectTypeOther      string `json:"projectTypeOther"`
	ProjectObjective      string `json:"projectObjective" validate:"required" msg:"required=Selecione o objetivo do projeto"`
	ProjectObjectiveOther string `json:"projectObjectiveOther"`

	StructurePages []string `json:"structurePages"`
	StructureOther string   `json:"structureOther"`

	HasLogo   string `json:"hasLogo" validate:"required" msg:"required=Indique se tem logotipo"`
	PackageID string `json:"packageId" validate:"required" msg:"required=Selecione um pacote"`

	SocialLinks  string `json:"socialLinks"`
	Observations string `json:"observations"`

	Submission
}

// ManagementOrderRequest is the body of POST /v1/orders/gestao.
type ManagementOrderRequest struct {
	FullName     string `json:"fullName" validate:"tmin=3,tmax=100" msg:"tmin=Nome deve ter pelo menos 3 caracteres;tmax=Nome muito longo"`
	SiteName     string `json:"siteName" validate:"tmin=2,tmax=100" msg:"tmin=Nome do site/app é obrigatório;tmax=Nome muito longo"`
	SiteLink     string `json:"siteLink"`
	Email        string `json:"email" validate:"temail" msg:"temail=Email inválido"`
	Phone        string `json:"phone" validate:"tmin=9" msg:"tmin=Telefone deve ter pelo menos 9 dígitos"`
	WhatsApp     string `json:"whatsapp" validate:"tmin=9" msg:"tmin=WhatsApp deve ter pelo menos 9 dígitos"`
	BusinessType string `json:"businessType" validate:"tmin=2" msg:"tmin=Tipo de negócio é obrigatório"`

	ManagementTypes []string `json:"managementTypes" validate:"min=1" msg:"min=Selecione pelo menos um tipo de gestão"`
	ManagementOther string   `json:"managementOther"`

	Frequency string `json:"frequency" validate:"required" msg:"required=Selecione a frequência desejada"`
	PlanID    string `json:"planId" validate:"required" msg:"required=Selecione um plano"`

	Observations string `json:"observations"`

	Submission
}

// GenericOrderRequest is the body of POST /v1/orders. Package and plan are
// both optional here.
type GenericOrderRequest struct {
	Name         string `json:"name" validate:"tmin=3,tmax=100" msg:"tmin=Nome deve ter pelo menos 3 caracteres;tmax=Nome muito longo"`
	Email        string `json:"email" validate:"temail" msg:"temail=Email inválido"`
	Phone        string `json:"phone" validate:"tmin=9" msg:"tmin=Telefone deve ter pelo menos 9 dígitos"`
	BusinessName string `json:"businessName" validate:"tmin=2,tmax=100" msg:"tmin=Nome do negócio é obrigatório;tmax=Nome muito longo"`
	BusinessType string `json:"businessType"`
	PackageID    string `json:"packageId"`
	PlanID       string `json:"planId"`
	Description  string `json:"description"`
	Preferences  string `json:"preferences"`

	Submission
}

// Option is one selectable value of a form field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Form option lists, as offered by the creation and management forms.
var (
	ProjectTypeOptions = []Option{
		{"website", "Website"},
		{"webapp", "Web App"},
		{"landingpage", "Landing Page"},
		{"loja", "Loja Online"},
		{ChoiceOther, "Outro"},
	}
	ProjectObjectiveOptions = []Option{
		{"vendas", "Vendas"},
		{"marca", "Apresentação da marca"},
		{"agendamento", "Agendamento de serviços"},
		{"restaurante", "Restaurante/menu online"},
		{ChoiceOther, "Outro"},
	}
	StructureOptions = []Option{
		{"inicio", "Página inicial"},
		{"sobre", "Sobre nós"},
		{"produtos", "Produtos / serviços"},
		{"galeria", "Galeria"},
		{"blog", "Blog / Notícias"},
		{"cliente", "Área de cliente"},
		{"contacto", "Formulário de contacto"},
		{"whatsapp", "Botão WhatsApp"},
		{"redes", "Integração com redes sociais"},
		{ChoiceOther, "Outro"},
	}
	ManagementOptions = []Option{
		{"conteudo", "Atualização de conteúdo"},
		{"seguranca", "Segurança e backups"},
		{"desempenho", "Acompanhamento de desempenho"},
		{"suporte", "Suporte técnico"},
		{"monitoramento", "Monitoramento de visitas"},
		{ChoiceOther, "Outros"},
	}
	FrequencyOptions = []Option{
		{"basico", "Básico (mensal)"},
		{"medio", "Médio (quinzenal)"},
		{"avancado", "Avançado (semanal)"},
		{"personalizado", "Personalizado"},
	}
)

// SubmissionResult is returned after the order and its contract are stored.
type SubmissionResult struct {
	OrderID        string  `json:"orderId"`
	OrderNumber    string  `json:"orderNumber"`
	ContractID     string  `json:"contractId"`
	ContractNumber string  `json:"contractNumber"`
	TotalValue     float64 `json:"totalValue"`
	Title          string  `json:"title"`
	Message        string  `json:"message"`
	RedirectTo     string  `json:"redirectTo"`
}
