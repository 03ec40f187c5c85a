// docchat API服务入口
// 启动逻辑都在cmd包，这里只负责执行根命令
package main

import (
	"os"

	"docchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
