package repositories

// Repositories struct holds all repository interfaces
type Repositories struct {
	AllowList AllowListRepository
	Ledger    LedgerRepository
	Activity  ActivityLogRepository
}

// NewRepositories creates and initializes all repositories.
// superAdminID seeds the allow list when no persisted state exists.
func NewRepositories(allowListPath, dataDir, activityLogPath string, superAdminID int64) *Repositories {
	return &Repositories{
		AllowList: NewAllowListRepository(allowListPath, superAdminID),
		Ledger:    NewLedgerRepository(dataDir),
		Activity:  NewActivityLogRepository(activityLogPath),
	}
}
