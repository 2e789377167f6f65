package copier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// Verify 校验 dst 是 src 的逐字节复制
// 两个文件的 SHA-256 并行算（固件镜像能到几 MB，串行算白等一倍时间），
// 一致则返回十六进制校验和，供账本记录用。
func Verify(ctx context.Context, src, dst string) (string, error) {
	var srcSum, dstSum string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		srcSum, err = hashFile(ctx, src)
		return err
	})
	g.Go(func() error {
		var err error
		dstSum, err = hashFile(ctx, dst)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if srcSum != dstSum {
		return "", fmt.Errorf("checksum mismatch: %s != %s", srcSum, dstSum)
	}
	return srcSum, nil
}

func hashFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
