// cmd/ddlgen/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	sqlrepo "shopcart/internal/adapters/out/db"
)

func mustWrite(path string, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		panic(err)
	}
}

func main() {
	outDir := filepath.Join("internal", "infra", "database", "migrations")

	// 出力ファイル（方言ごと）
	targets := []struct {
		dialect sqlrepo.Dialect
		file    string
	}{
		{sqlrepo.DialectPostgres, "init_products.postgres.sql"},
		{sqlrepo.DialectSQLite, "init_products.sqlite.sql"},
	}

	for _, t := range targets {
		ddl, err := sqlrepo.ProductsDDL(t.dialect)
		if err != nil {
			panic(err)
		}
		path := filepath.Join(outDir, t.file)
		mustWrite(path, ddl)
		fmt.Println("✅ Generated:", path)
	}
}
