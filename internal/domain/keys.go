package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyPrincipal CtxKey = "Principal"
)

// KeyRequestID is a plain string so gin.Context.Value can resolve it.
const KeyRequestID = "RequestID"

// Principal is the authenticated caller attached to every protected request.
type Principal struct {
	ID     string   `json:"id"`
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
}

func (p Principal) Authenticated() bool {
	return p.ID != ""
}
