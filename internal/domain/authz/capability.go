// Package authz define el modelo de roles y la verificación de capacidades.
//
// La política es una tabla estática operación -> conjunto de roles permitidos,
// consumida de forma uniforme por cada punto de entrada mutador (motor de vales
// y middleware HTTP). Los chequeos de rol NO se dispersan en condicionales:
// olvidarse de un chequeo deja de ser posible si toda ruta pasa por Allowed.
//
// El modelo es deliberadamente plano: admin tiene membresía explícita en cada
// conjunto que lo incluye, no una jerarquía calculada. Agregar un rol nuevo
// jamás cambia silenciosamente un chequeo existente.
package authz

import "github.com/aerostock/aerostock-api/internal/domain/entity"

// Capability identifica una operación sujeta a control de acceso.
type Capability string

// Capacidades del sistema.
const (
	CapCreateVoucher     Capability = "voucher:create"
	CapApproveVoucher    Capability = "voucher:approve" // aprueba y rechaza
	CapIssueVoucher      Capability = "voucher:issue"
	CapCompleteVoucher   Capability = "voucher:complete"
	CapViewAllVouchers   Capability = "voucher:view-all"
	CapViewStoreVouchers Capability = "voucher:view-store" // solo approved/issued/completed
	CapViewOwnVouchers   Capability = "voucher:view-own"
	CapEditItem          Capability = "item:edit"
	CapDeleteItem        Capability = "item:delete"
	CapManageUsers       Capability = "user:manage"
	CapManageMaintenance Capability = "maintenance:manage"
)

// table es la política fija del sistema (no configurable en runtime).
var table = map[Capability][]string{
	CapCreateVoucher:     {entity.RoleProjectUser, entity.RoleAdmin},
	CapApproveVoucher:    {entity.RoleApproveAuthority, entity.RoleAdmin},
	CapIssueVoucher:      {entity.RoleStoreUser, entity.RoleAdmin},
	CapCompleteVoucher:   {entity.RoleStoreUser, entity.RoleAdmin},
	CapViewAllVouchers:   {entity.RoleAdmin, entity.RoleApproveAuthority},
	CapViewStoreVouchers: {entity.RoleStoreUser, entity.RoleAdmin},
	CapViewOwnVouchers:   {entity.RoleProjectUser},
	CapEditItem:          {entity.RoleAdmin, entity.RoleStoreUser},
	CapDeleteItem:        {entity.RoleAdmin},
	CapManageUsers:       {entity.RoleAdmin},
	CapManageMaintenance: {entity.RoleAdmin, entity.RoleStoreUser},
}

// HasCapability verifica pertenencia del rol al conjunto permitido.
func HasCapability(actorRole string, requiredRoles []string) bool {
	for _, r := range requiredRoles {
		if r == actorRole {
			return true
		}
	}
	return false
}

// Allowed consulta la tabla de política para una capacidad concreta.
// Una capacidad desconocida no autoriza a nadie.
func Allowed(actorRole string, cap Capability) bool {
	return HasCapability(actorRole, table[cap])
}

// RolesFor devuelve una copia del conjunto de roles permitidos para la capacidad
// (para registrar la política en rutas HTTP sin duplicar la tabla).
func RolesFor(cap Capability) []string {
	roles := table[cap]
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}
