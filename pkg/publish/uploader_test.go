package publish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Layout(t *testing.T) {
	// 设备端按这个布局拉镜像，格式变了 OTA 就全断了
	key := Key("StateIO", "rack32", "StateIO_rack32_v1.2.3_OTA")
	assert.Equal(t, "StateIO/rack32/StateIO_rack32_v1.2.3_OTA.bin", key)
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	_, err := NewUploader(context.Background(), Config{Region: "us-east-1"})
	require.Error(t, err)
}
