package auth

// Account is an operator of the reporting tool.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

const (
	RoleOwner      = "OWNER"
	RoleBookkeeper = "BOOKKEEPER"
)
