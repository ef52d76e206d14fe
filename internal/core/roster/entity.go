package roster

import "time"

// Employee は外部プロバイダーの従業員に対するローカル設定レコードです。
// 一度作成されたレコードは削除されず、Removed フラグで論理的に除外されます。
type Employee struct {
	ID                 string
	OrganizationID     string
	ProviderEmployeeID int64
	Name               string
	Email              *string
	Enabled            bool
	Removed            bool
	LastSyncAt         time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Assignable は予約の割り当て対象にできるかどうかを返します。
func (e *Employee) Assignable() bool {
	return e.Enabled && !e.Removed
}

// ProviderEmployee はプロバイダーが返す従業員ロスターの 1 エントリです。
type ProviderEmployee struct {
	ID    int64
	Name  string
	Email *string
}

// SyncEntry は同期結果の 1 件を表します。WasJustAdded / WasJustRemoved は
// 同期のたびに再計算される派生フラグであり、永続化されません。
type SyncEntry struct {
	Employee       *Employee
	WasJustAdded   bool
	WasJustRemoved bool
}

// SyncResult は 1 回の同期で触れたレコードの一覧です。プロバイダーに存在した
// エントリと、今回の同期で除外されたエントリを含みます。除外済みのまま
// 現れなかったレコードは含みません。
type SyncResult struct {
	Entries  []*SyncEntry
	SyncedAt time.Time
}
