package buildenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Persistence_RoundTrip(t *testing.T) {
	// 1. Setup
	buildDir := t.TempDir()

	// 2. 创建并写入状态 (模拟 inject)
	s1 := NewState("rack32", buildDir)
	s1.AppendBuildFlags("-DFW_NAME=StateIO", "-DFW_VERSION=1.2.3")
	s1.SetProgNames("StateIO_rack32_v1.2.3", "StateIO_rack32_v1.2.3_OTA")
	s1.SetIdentity("StateIO", "1.2.3", map[string]string{"FW_NAME": "StateIO"})

	require.NoError(t, s1.Save())

	// 3. 重新加载 (模拟 post 在另一个进程里跑)
	s2, err := Load(buildDir)
	require.NoError(t, err)

	// 4. 验证数据一致性
	assert.Equal(t, "rack32", s2.EnvName)
	assert.Equal(t, buildDir, s2.BuildDir)
	assert.Equal(t, []string{"-DFW_NAME=StateIO", "-DFW_VERSION=1.2.3"}, s2.BuildFlags)
	assert.Equal(t, "StateIO_rack32_v1.2.3_OTA", s2.ProgName)
	assert.Equal(t, "StateIO_rack32_v1.2.3", s2.ProgNameRaw)
	assert.Equal(t, "StateIO", s2.FirmwareName)
	assert.Equal(t, "1.2.3", s2.Version)
	assert.Equal(t, "StateIO", s2.Defines["FW_NAME"])
}

func TestLoad_NoState(t *testing.T) {
	// post 在 inject 之前跑：要有能被 errors.Is 识别的错误
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNoState)
}

func TestSubst(t *testing.T) {
	s := NewState("rack32", "/proj/.pio/build/rack32")
	s.SetProgNames("FW_rack32_v1", "FW_rack32_v1_OTA")

	tests := []struct {
		tmpl     string
		expected string
	}{
		// 原 hook 用的就是这个模板
		{"$BUILD_DIR/${PROGNAME}.bin", "/proj/.pio/build/rack32/FW_rack32_v1_OTA.bin"},
		{"${PROGNAME_RAW}_FLASH.bin", "FW_rack32_v1_FLASH.bin"},
		{"$PIOENV", "rack32"},
		// 未知变量展开成空串，不报错 (SCons 语义)
		{"${NOPE}/x", "/x"},
		{"no variables here", "no variables here"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, s.Subst(tt.tmpl))
	}
}

func TestSubst_SeesLatestProgNames(t *testing.T) {
	// SetProgNames 之后 Subst 必须立刻看到新值
	s := NewState("env", "/b")
	assert.Equal(t, "/b/.bin", s.Subst("$BUILD_DIR/${PROGNAME}.bin"))

	s.SetProgNames("raw", "raw_OTA")
	assert.Equal(t, "/b/raw_OTA.bin", s.Subst("$BUILD_DIR/${PROGNAME}.bin"))
}

func TestSave_Overwrite(t *testing.T) {
	// 重复 inject（比如改了配置重跑）要覆盖旧状态
	buildDir := t.TempDir()

	s1 := NewState("env", buildDir)
	s1.SetProgNames("old", "old_OTA")
	require.NoError(t, s1.Save())

	s2 := NewState("env", buildDir)
	s2.SetProgNames("new", "new_OTA")
	require.NoError(t, s2.Save())

	loaded, err := Load(buildDir)
	require.NoError(t, err)
	assert.Equal(t, "new_OTA", loaded.ProgName)
}
