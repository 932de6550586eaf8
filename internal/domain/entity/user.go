package entity

import "time"

// Roles válidos para User. Modelo plano: ningún rol hereda capacidades de otro;
// admin aparece de forma explícita en cada conjunto de permisos que lo incluye.
const (
	RoleAdmin            = "admin"
	RoleApproveAuthority = "approveAuthority"
	RoleStoreUser        = "storeUser"
	RoleProjectUser      = "projectUser"
)

// User representa un usuario del sistema. Cada usuario tiene exactamente un rol.
type User struct {
	ID           string
	Email        string
	PasswordHash string    // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string    // ver constantes Role*
	Status       string    // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor es la identidad + rol en cuyo nombre se invoca una operación.
// Lo provee el Identity Provider (JWT); el núcleo nunca autentica, solo autoriza.
type Actor struct {
	ID   string
	Name string
	Role string
}
