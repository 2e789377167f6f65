package gitver

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrDescribeFailed = errors.New("git describe failed")

// runFunc 抽象掉子进程调用，测试时可以换成假的
type runFunc func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

// execRun 是默认实现：真的去跑子进程
// 只收集 stdout，stderr 留给构建日志（git 的报错信息对用户有用）
func execRun(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// Client 封装对版本控制的查询
// 整个工具只用到一个操作：describe 最近的 tag
type Client struct {
	dir string
	run runFunc
}

// NewClient 创建 git 客户端
// dir: 工程根目录，git 命令在这里执行
func NewClient(dir string) *Client {
	return &Client{dir: dir, run: execRun}
}

// Describe 返回最近 tag 的描述串，比如 "1.2.3" 或 "1.2.3-4-gabc1234"
// 用 --tags 是关键：发布 tag 是轻量 tag，不带 annotation，
// 不加这个参数 git 会直接说 "No names found"。
// 输出只做去首尾空白，其余原样保留。
func (c *Client) Describe(ctx context.Context) (string, error) {
	out, err := c.run(ctx, c.dir, "git", "describe", "--tags")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDescribeFailed, err)
	}
	return strings.TrimSpace(string(out)), nil
}
