package constants

// Cart states. Persisted values match the carrito.estado column.
const (
	CartStatusActive    = "activo"
	CartStatusEmptied   = "vaciado"
	CartStatusConverted = "convertido"
)

// Sale states. Persisted values match the venta.estado column.
const (
	SaleStatusProcessing = "Procesando"
	SaleStatusShipped    = "Enviado"
	SaleStatusCompleted  = "Completado"
	SaleStatusCanceled   = "Cancelado"
)

// Payment methods recorded on venta.metodo_pago.
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodManual = "manual"
)

// Person roles.
const (
	RoleAdmin    = "administrador"
	RoleCustomer = "cliente"
)

// Queue names and task types.
const (
	QueueDefault          = "default"
	TaskSaleConfirmEmail  = "sale:confirm_email"
	TaskSaleStatusChanged = "sale:status_changed"
)
