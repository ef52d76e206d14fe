package roster

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// MetricsRecorder は同期実行の観測値を記録します。
type MetricsRecorder interface {
	ObserveSync(outcome string, added, removed int, elapsed time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) ObserveSync(string, int, int, time.Duration) {}

// Service はロスター同期に関するユースケースをまとめます。
// 同一組織の同期は singleflight で直列化され、マージ全体は 1 つの
// 読み書きトランザクション内で実行されます。
type Service struct {
	repo    Repository
	sources SourceResolver
	clock   Clock
	tx      TransactionManager
	metrics MetricsRecorder
	log     zerolog.Logger
	group   singleflight.Group
}

// UseCase はロスターユースケースの公開インターフェースです。
type UseCase interface {
	SyncEmployees(ctx context.Context, in SyncEmployeesInput) (*SyncResult, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error)
	SetEmployeeEnabled(ctx context.Context, in SetEmployeeEnabledInput) (*Employee, error)
}

// NewService は Service を生成します。clock / tx / metrics は nil の場合
// 既定の実装が使われます。
func NewService(repo Repository, sources SourceResolver, clock Clock, tx TransactionManager, metrics MetricsRecorder, log zerolog.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if metrics == nil {
		metrics = noopMetricsRecorder{}
	}
	return &Service{repo: repo, sources: sources, clock: clock, tx: tx, metrics: metrics, log: log}
}

// SyncEmployeesInput は同期実行時の入力です。
type SyncEmployeesInput struct {
	OrganizationID string
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	OrganizationID string
}

// SetEmployeeEnabledInput は割り当て可否フラグ更新時の入力です。
type SetEmployeeEnabledInput struct {
	OrganizationID string
	EmployeeID     string
	Enabled        bool
}

// SyncEmployees はプロバイダーの現在のロスターを取得し、ローカルレコードへ
// マージします。プロバイダー取得が失敗した場合、ローカルへの書き込みは
// 一切行われません。
func (s *Service) SyncEmployees(ctx context.Context, in SyncEmployeesInput) (*SyncResult, error) {
	orgID, err := normalizeOrganizationID(in.OrganizationID)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(orgID, func() (any, error) {
		return s.syncOnce(ctx, orgID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SyncResult), nil
}

func (s *Service) syncOnce(ctx context.Context, orgID string) (*SyncResult, error) {
	started := s.clock.Now()

	source, err := s.sources.SourceFor(ctx, orgID)
	if err != nil {
		return nil, err
	}

	fetched, err := source.FetchEmployees(ctx)
	if err != nil {
		s.metrics.ObserveSync("fetch_failed", 0, 0, s.clock.Now().Sub(started))
		s.log.Error().Err(err).Str("organization_id", orgID).Msg("provider roster fetch failed")
		return nil, ErrSyncFailed
	}

	var result *SyncResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		merged, err := s.merge(txCtx, orgID, fetched)
		if err != nil {
			return err
		}
		result = merged
		return nil
	}); err != nil {
		s.metrics.ObserveSync("merge_failed", 0, 0, s.clock.Now().Sub(started))
		return nil, err
	}

	added, removed := countDeltas(result.Entries)
	s.metrics.ObserveSync("ok", added, removed, s.clock.Now().Sub(started))
	s.log.Info().
		Str("organization_id", orgID).
		Int("roster_size", len(fetched)).
		Int("added", added).
		Int("removed", removed).
		Msg("roster sync completed")

	return result, nil
}

// merge はスナップショットとローカルレコードを provider employee id 単位で
// 突き合わせます。Enabled フラグはユーザー設定として同期をまたいで保持されます。
func (s *Service) merge(ctx context.Context, orgID string, fetched []ProviderEmployee) (*SyncResult, error) {
	locals, err := s.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	byProviderID := make(map[int64]*Employee, len(locals))
	for _, emp := range locals {
		byProviderID[emp.ProviderEmployeeID] = emp
	}

	now := s.clock.Now()
	entries := make([]*SyncEntry, 0, len(fetched))
	seen := make(map[int64]bool, len(fetched))

	for _, pe := range fetched {
		if pe.ID <= 0 {
			s.log.Warn().Str("organization_id", orgID).Int64("provider_employee_id", pe.ID).Msg("skipping roster entry with invalid id")
			continue
		}
		if seen[pe.ID] {
			// 同一スナップショット内の重複 id は最初の 1 件だけを採用する。
			continue
		}
		seen[pe.ID] = true

		name := strings.TrimSpace(pe.Name)
		email := normalizeEmail(pe.Email)

		existing, ok := byProviderID[pe.ID]
		if !ok {
			created, err := s.repo.Create(ctx, &Employee{
				ID:                 uuid.NewString(),
				OrganizationID:     orgID,
				ProviderEmployeeID: pe.ID,
				Name:               name,
				Email:              email,
				Enabled:            false,
				Removed:            false,
				LastSyncAt:         now,
				CreatedAt:          now,
				UpdatedAt:          now,
			})
			if err != nil {
				return nil, err
			}
			entries = append(entries, &SyncEntry{Employee: created, WasJustAdded: true})
			continue
		}

		reappeared := existing.Removed
		existing.Name = name
		existing.Email = email
		existing.Removed = false
		existing.LastSyncAt = now
		existing.UpdatedAt = now

		updated, err := s.repo.Update(ctx, existing)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &SyncEntry{Employee: updated, WasJustAdded: reappeared})
	}

	for _, emp := range locals {
		if seen[emp.ProviderEmployeeID] || emp.Removed {
			continue
		}

		emp.Removed = true
		emp.Enabled = false
		emp.LastSyncAt = now
		emp.UpdatedAt = now

		updated, err := s.repo.Update(ctx, emp)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &SyncEntry{Employee: updated, WasJustRemoved: true})
	}

	return &SyncResult{Entries: entries, SyncedAt: now}, nil
}

// ListEmployees は組織のロスターレコードを除外済みも含めて返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error) {
	orgID, err := normalizeOrganizationID(in.OrganizationID)
	if err != nil {
		return nil, err
	}

	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListByOrganization(txCtx, orgID)
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}

	return employees, nil
}

// SetEmployeeEnabled は 1 レコードの Enabled フラグだけを更新します。
// 除外済みレコードの有効化は拒否されます。
func (s *Service) SetEmployeeEnabled(ctx context.Context, in SetEmployeeEnabledInput) (*Employee, error) {
	orgID, err := normalizeOrganizationID(in.OrganizationID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, ErrInvalidEmployeeID
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.EmployeeID)
		if err != nil {
			return err
		}
		if existing.OrganizationID != orgID {
			return ErrEmployeeNotFound
		}
		if in.Enabled && existing.Removed {
			return ErrEmployeeRemoved
		}

		existing.Enabled = in.Enabled
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

func countDeltas(entries []*SyncEntry) (added, removed int) {
	for _, entry := range entries {
		if entry.WasJustAdded {
			added++
		}
		if entry.WasJustRemoved {
			removed++
		}
	}
	return added, removed
}

func normalizeOrganizationID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidOrganizationID
	}
	return trimmed, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
