package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit 是 Describer 的测试替身
type fakeGit struct {
	out string
	err error
}

func (f *fakeGit) Describe(ctx context.Context) (string, error) {
	return f.out, f.err
}

// newConfig 构造一个隔离的配置实例（不碰全局 viper）
func newConfig(kv map[string]string) *viper.Viper {
	v := viper.New()
	v.SetDefault("firmware.variant", "per-chip")
	for k, val := range kv {
		v.Set(k, val)
	}
	return v
}

func TestResolve_PerChip_Esp8266(t *testing.T) {
	// 规格里的完整例子：带转义引号的名字 + 带换行的 tag 输出
	cfg := newConfig(map[string]string{
		"firmware.name_esp8266": `Room8266\"Sensor\"`,
	})
	r := &Resolver{Git: &fakeGit{out: "1.2.3"}}

	id, err := r.Resolve(context.Background(), "nodemcu8266", cfg)
	require.NoError(t, err)

	assert.Equal(t, `Room8266\"Sensor\"`, id.RawName)
	assert.Equal(t, "Room8266Sensor", id.DisplayName)
	assert.Equal(t, "1.2.3", id.Version)
}

func TestResolve_PerChip_Esp32(t *testing.T) {
	// 环境名里没有 "8266"，走 esp32 的 key
	cfg := newConfig(map[string]string{
		"firmware.name_esp32":   "RackController",
		"firmware.name_esp8266": "WrongOne",
	})
	r := &Resolver{Git: &fakeGit{out: "2.0.0"}}

	id, err := r.Resolve(context.Background(), "rack32", cfg)
	require.NoError(t, err)
	assert.Equal(t, "RackController", id.DisplayName)
}

func TestResolve_Unified_IgnoresEnvName(t *testing.T) {
	// unified 变体完全不看环境名，哪怕名字里有 8266
	cfg := newConfig(map[string]string{
		"firmware.variant":      "unified",
		"firmware.name":         "StateIO",
		"firmware.name_esp8266": "ShouldNotBeRead",
	})
	r := &Resolver{Git: &fakeGit{out: "3.1.0"}}

	id, err := r.Resolve(context.Background(), "nodemcu8266", cfg)
	require.NoError(t, err)
	assert.Equal(t, "StateIO", id.DisplayName)
}

func TestResolve_MissingKey(t *testing.T) {
	// 缺 key 必须是硬错误，周边没人兜底
	cfg := newConfig(nil)
	r := &Resolver{Git: &fakeGit{out: "1.0.0"}}

	_, err := r.Resolve(context.Background(), "rack32", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigKeyMissing)
}

func TestResolve_UnknownVariant(t *testing.T) {
	cfg := newConfig(map[string]string{
		"firmware.variant": "per-board",
		"firmware.name":    "StateIO",
	})
	r := &Resolver{Git: &fakeGit{out: "1.0.0"}}

	_, err := r.Resolve(context.Background(), "rack32", cfg)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestResolve_VersionQueryFails_Lenient(t *testing.T) {
	// 默认策略：查询失败降级成空版本，构建继续
	cfg := newConfig(map[string]string{
		"firmware.name_esp32": "StateIO",
	})
	r := &Resolver{Git: &fakeGit{err: errors.New("not a git repository")}}

	id, err := r.Resolve(context.Background(), "rack32", cfg)
	require.NoError(t, err)
	assert.Equal(t, "", id.Version)
}

func TestResolve_VersionQueryFails_Strict(t *testing.T) {
	cfg := newConfig(map[string]string{
		"firmware.name_esp32": "StateIO",
	})
	cfg.Set("firmware.strict_version", true)
	r := &Resolver{Git: &fakeGit{err: errors.New("not a git repository")}}

	_, err := r.Resolve(context.Background(), "rack32", cfg)
	require.Error(t, err)
}

func TestResolve_EmptyDescribe_Strict(t *testing.T) {
	// 空输出在严格模式下跟失败同罪
	cfg := newConfig(map[string]string{
		"firmware.name_esp32": "StateIO",
	})
	cfg.Set("firmware.strict_version", true)
	r := &Resolver{Git: &fakeGit{out: ""}}

	_, err := r.Resolve(context.Background(), "rack32", cfg)
	require.Error(t, err)
}

func TestResolve_QuoteStripping(t *testing.T) {
	// 性质：DisplayName == RawName 去掉每一处 \" 序列
	tests := []struct {
		raw      string
		expected string
	}{
		{`\"Plain\"`, "Plain"},
		{`No quotes at all`, "No quotes at all"},
		{`\"\"\"`, ""},
		{`Mid\"dle`, "Middle"},
	}

	for _, tt := range tests {
		cfg := newConfig(map[string]string{"firmware.name_esp32": tt.raw})
		r := &Resolver{Git: &fakeGit{out: "1.0.0"}}

		id, err := r.Resolve(context.Background(), "rack32", cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, id.DisplayName)
	}
}
