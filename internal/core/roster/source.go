package roster

import "context"

// EmployeeSource はプロバイダーの現在の従業員ロスターを返す能力です。
// 返されるロスターは差分ではなく完全なスナップショットとして扱われます。
type EmployeeSource interface {
	FetchEmployees(ctx context.Context) ([]ProviderEmployee, error)
}

// SourceResolver は組織に設定されたプロバイダーに応じた EmployeeSource を
// 構築します。プロバイダー未設定の組織に対してはエラーを返します。
type SourceResolver interface {
	SourceFor(ctx context.Context, organizationID string) (EmployeeSource, error)
}
