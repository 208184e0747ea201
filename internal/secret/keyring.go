package secret

// ServiceName 是 sshrun 在 OS keyring 中使用的 service name。
const ServiceName = "sshrun"

// KeyringAPI 是对 OS keyring 的最小抽象，便于测试与跨平台。
// service 对应 keyring 的 service name，account 对应 user/account。
type KeyringAPI interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

// DefaultKeyring 返回基于 zalando/go-keyring 的实现；
// 各平台的 Get/Set/Delete 见 keyring_default.go / keyring_windows.go。
func DefaultKeyring() KeyringAPI {
	return &osKeyring{}
}

type osKeyring struct{}
