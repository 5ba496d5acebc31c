package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"repairshop_backend/internal/metrics"
	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

// Result describes a written backup.
type Result struct {
	Name      string    `json:"name"`
	Target    string    `json:"target"`
	SizeBytes int       `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manager writes store snapshots to a target and runs the automatic backup schedule.
type Manager struct {
	store    *repositories.Store
	target   Target
	settings services.SettingService
	events   *services.Events
	timeout  time.Duration

	mu      sync.Mutex
	sched   *cron.Cron
	entryID cron.EntryID
	spec    string
}

// NewManager creates a Manager. timeout bounds each scheduled run.
func NewManager(store *repositories.Store, target Target, settings services.SettingService, events *services.Events, loc *time.Location, timeout time.Duration) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Manager{
		store:    store,
		target:   target,
		settings: settings,
		events:   events,
		timeout:  timeout,
		sched:    cron.New(cron.WithLocation(loc)),
	}
}

// ScheduleSpec maps a backup frequency onto a cron descriptor.
func ScheduleSpec(frequency string) (string, error) {
	switch frequency {
	case models.BackupHourly:
		return "@hourly", nil
	case models.BackupDaily:
		return "@daily", nil
	case models.BackupWeekly:
		return "@weekly", nil
	}
	return "", fmt.Errorf("unknown backup frequency %q", frequency)
}

// Backup serializes the current snapshot, writes it to the target and stamps lastBackup.
func (m *Manager) Backup(ctx context.Context) (*Result, error) {
	snapshot := m.store.ExportSnapshot()
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	at := m.store.Now()
	name := fmt.Sprintf("repairshop-%s.json", at.UTC().Format("20060102T150405.000Z"))

	if err := m.target.Write(ctx, name, payload); err != nil {
		metrics.Backups.WithLabelValues(m.target.Name(), metrics.ResultFailed).Inc()
		return nil, err
	}
	if _, err := m.settings.RecordBackup(ctx, at); err != nil {
		return nil, fmt.Errorf("backup written but last backup time not saved: %w", err)
	}
	metrics.Backups.WithLabelValues(m.target.Name(), metrics.ResultCommitted).Inc()
	utils.LogInfo("Backup written", map[string]interface{}{"name": name, "target": m.target.Name(), "bytes": len(payload)})
	m.events.PublishBackupCompleted(m.target.Name(), at)

	return &Result{Name: name, Target: m.target.Name(), SizeBytes: len(payload), CreatedAt: at}, nil
}

// Start applies the current backup settings, follows later changes and starts the scheduler.
func (m *Manager) Start(ctx context.Context) error {
	settings, err := m.settings.Get(ctx)
	if err != nil {
		return err
	}
	if err := m.Apply(settings.Backup); err != nil {
		return err
	}
	if m.events != nil {
		if err := m.events.Subscribe(services.TopicSettingsUpdated, m.onSettingsUpdated); err != nil {
			return fmt.Errorf("failed to follow settings: %w", err)
		}
	}
	m.sched.Start()
	return nil
}

// Stop halts the scheduler and waits for a running backup to finish.
func (m *Manager) Stop() {
	<-m.sched.Stop().Done()
}

func (m *Manager) onSettingsUpdated(settings models.Settings) {
	if err := m.Apply(settings.Backup); err != nil {
		utils.LogError(err, "Failed to reschedule automatic backup")
	}
}

// Apply (re)schedules the automatic backup to match settings. Unchanged settings are a no-op.
func (m *Manager) Apply(settings models.BackupSettings) error {
	spec := ""
	if settings.AutoBackup {
		var err error
		if spec, err = ScheduleSpec(settings.Frequency); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if spec == m.spec {
		return nil
	}
	if m.entryID != 0 {
		m.sched.Remove(m.entryID)
		m.entryID = 0
	}
	m.spec = spec
	if spec == "" {
		utils.LogInfo("Automatic backup disabled")
		return nil
	}
	id, err := m.sched.AddFunc(spec, m.runScheduled)
	if err != nil {
		return fmt.Errorf("failed to schedule backup %s: %w", spec, err)
	}
	m.entryID = id
	utils.LogInfo("Automatic backup scheduled", map[string]interface{}{"schedule": spec, "target": m.target.Name()})
	return nil
}

// Spec returns the active cron descriptor, empty when automatic backup is off.
func (m *Manager) Spec() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spec
}

func (m *Manager) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if _, err := m.Backup(ctx); err != nil {
		utils.LogError(err, "Scheduled backup failed")
	}
}
