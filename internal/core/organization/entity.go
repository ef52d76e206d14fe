package organization

import "time"

// ProviderKind は従業員ロスターの取得元プロバイダー種別です。
type ProviderKind string

const (
	ProviderNone         ProviderKind = ""
	ProviderHousecallPro ProviderKind = "housecallpro"
	ProviderJobber       ProviderKind = "jobber"
)

// ProviderSettings は組織ごとのプロバイダー接続設定です。Subdomain と Domain は
// テナント固有のビルド構成、トークンは OAuth スタイルの資格情報を保持します。
type ProviderSettings struct {
	Kind         ProviderKind
	Subdomain    string
	Domain       string
	AccessToken  string
	RefreshToken string
}

// Organization はマルチテナントのテナントエンティティです。
type Organization struct {
	ID        string
	Name      string
	APIToken  string
	Provider  ProviderSettings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProviderConfigured はロスター同期可能なプロバイダー設定を持つかどうかを返します。
func (o *Organization) ProviderConfigured() bool {
	return o.Provider.Kind != ProviderNone
}
