package constants

// Static route constants
const (
	PublicRoute      = "/"
	LoginRoute       = "/login"
	LogoutRoute      = "/logout"
	SetPasswordRoute = "/definir-senha"
	RecoveryRoute    = "/recuperar-senha"
	MemberRoute      = "/membros"
	AdminRoute       = "/admin"
	WebhookRoute     = "/api/webhook/checkout"
)
