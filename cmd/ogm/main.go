// Command ogm 从 YAML 声明加载图模型，渲染关联的 Cypher 关系片段并描述关联。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
