package models

import "time"

// Backup frequencies.
const (
	BackupHourly = "hourly"
	BackupDaily  = "daily"
	BackupWeekly = "weekly"
)

// ShopInfo holds the shop's contact details and its displayed tax rate (percent).
type ShopInfo struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	TaxRate float64 `json:"taxRate"`
}

// NotificationSettings toggles which events reach the notification feed.
type NotificationSettings struct {
	LowStock         bool `json:"lowStock"`
	NewOrders        bool `json:"newOrders"`
	PaymentReminders bool `json:"paymentReminders"`
	SystemUpdates    bool `json:"systemUpdates"`
}

// BackupSettings controls automatic snapshots of the record store.
type BackupSettings struct {
	LastBackup *time.Time `json:"lastBackup"`
	AutoBackup bool       `json:"autoBackup"`
	Frequency  string     `json:"frequency"`
}

// Settings groups all application settings.
type Settings struct {
	Shop          ShopInfo             `json:"shop"`
	Notifications NotificationSettings `json:"notifications"`
	Backup        BackupSettings       `json:"backup"`
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	cp := s
	if s.Backup.LastBackup != nil {
		last := *s.Backup.LastBackup
		cp.Backup.LastBackup = &last
	}
	return cp
}

// DefaultSettings returns the settings a fresh shop starts with.
func DefaultSettings() Settings {
	return Settings{
		Shop: ShopInfo{
			Name:    "VoltFix Repair & Supply",
			Address: "123 Main Street, Anytown, USA 12345",
			Phone:   "(555) 123-4567",
			Email:   "info@voltfix.example",
			TaxRate: 8.0,
		},
		Notifications: NotificationSettings{
			LowStock:      true,
			NewOrders:     true,
			SystemUpdates: true,
		},
		Backup: BackupSettings{
			AutoBackup: false,
			Frequency:  BackupDaily,
		},
	}
}

// IsValidBackupFrequency reports whether freq is a supported backup frequency.
func IsValidBackupFrequency(freq string) bool {
	switch freq {
	case BackupHourly, BackupDaily, BackupWeekly:
		return true
	}
	return false
}

// Notification is one entry of the in-app notification feed.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // low_stock, new_invoice, order_assigned, backup
	Message   string    `json:"message"`
	EntityID  string    `json:"entityId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
