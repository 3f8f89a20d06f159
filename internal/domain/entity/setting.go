package entity

import "time"

// Claves de configuración con valor por defecto. Se insertan solo si no
// existen (por clave), por lo que la inicialización concurrente es inocua.
const (
	SettingClinicName    = "clinic_name"
	SettingClinicAddress = "clinic_address"
	SettingClinicPhone   = "clinic_phone"
	SettingReceiptFooter = "receipt_footer"
	SettingCurrency      = "currency_symbol"
	SettingLowStockAlert = "low_stock_alert"
)

// Setting par clave-valor de configuración de la clínica.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// DefaultSettings devuelve los valores por defecto de la clínica.
func DefaultSettings() map[string]string {
	return map[string]string{
		SettingClinicName:    "Clínica",
		SettingClinicAddress: "",
		SettingClinicPhone:   "",
		SettingReceiptFooter: "Gracias por su visita",
		SettingCurrency:      "$",
		SettingLowStockAlert: "true",
	}
}
