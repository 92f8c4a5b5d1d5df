// Copyright 2024 The pipeql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pipeql is a demo CLI driving a hand-constructed logical plan
// through the physical planner and a full pipeline, the way
// driver/_example/main.go exercises the teacher's engine end to end.
// There is no SQL parser here (out of scope per spec.md §1) — every
// subcommand builds its LogicalOperator tree directly.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pipeql/pipeql/expr"
	"github.com/pipeql/pipeql/expr/function"
	"github.com/pipeql/pipeql/internal/errkind"
	"github.com/pipeql/pipeql/memcatalog"
	"github.com/pipeql/pipeql/physical"
	"github.com/pipeql/pipeql/plan"
	"github.com/pipeql/pipeql/types"
	"github.com/pipeql/pipeql/variables"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "pipeql",
		Short: "Demo driver for the pipeql columnar pipeline engine",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and verbose explain output")

	rootCmd.AddCommand(valuesCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(varsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// valuesCmd runs spec.md §8 scenario 5: VALUES (1,'a'),(2,'b') lowered
// to a single Scan(ExpressionList) and pushed through a Pipeline into
// a CollectSink, whose batches are then printed to stdout.
func valuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "values",
		Short: "Run the VALUES (1,'a'),(2,'b') demo pipeline",
		RunE: func(*cobra.Command, []string) error {
			setupLogging()

			bc := expr.NewBindContext()
			colTypes := []types.LogicalType{types.Int32, types.Utf8}
			colNames := []string{"c0", "c1"}
			ref := bc.PushTable("", colTypes, colNames)
			rows := [][]expr.ScalarExpression{
				{&expr.Literal{Type: types.Int32, Value: int32(1)}, &expr.Literal{Type: types.Utf8, Value: "a"}},
				{&expr.Literal{Type: types.Int32, Value: int32(2)}, &expr.Literal{Type: types.Utf8, Value: "b"}},
			}
			projection := []int{0, 1}
			scan := plan.NewScan(ref, colTypes, colNames, projection, plan.ScanSource{
				Kind:               plan.ScanSourceExpressionList,
				ExpressionListRows: rows,
			})

			return runPlan(bc, nil, scan, colNames)
		},
	}
}

// scanCmd builds an in-memory "system"."public"."people" table, then
// Scan -> Filter(age > 30) -> Projection(name, age, age+1 AS next_age)
// lowered through PhysicalPlanner.CreatePlan and driven to completion.
func scanCmd() *cobra.Command {
	var minAge int
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a Scan/Filter/Projection demo pipeline over an in-memory table",
		RunE: func(*cobra.Command, []string) error {
			setupLogging()

			reg := memcatalog.NewRegistry()
			cat := memcatalog.NewCatalog()
			if err := reg.Attach("system", cat); err != nil {
				return err
			}
			db, err := cat.CreateDatabase("public")
			if err != nil {
				return err
			}
			colNames := []string{"id", "name", "age"}
			colTypes := []types.LogicalType{types.Int64, types.Utf8, types.Int32}
			table, err := db.CreateTable("people", colNames, colTypes)
			if err != nil {
				return err
			}
			for _, row := range [][]interface{}{
				{int64(1), "ada", int32(36)},
				{int64(2), "grace", int32(29)},
				{int64(3), "alan", int32(41)},
			} {
				if err := table.Insert(row); err != nil {
					return err
				}
			}

			bc := expr.NewBindContext()
			ref := bc.PushTable("people", colTypes, colNames)
			scan := plan.NewScan(ref, colTypes, colNames, []int{0, 1, 2}, plan.ScanSource{
				Kind:  plan.ScanSourceTable,
				Table: &plan.TableSource{Catalog: "system", Schema: "public", Entry: "people"},
			})

			ageCol := &expr.Column{Table: ref, Index: 2, Name: "age"}
			predicate := &expr.Comparison{
				Op:    expr.Gt,
				Left:  ageCol,
				Right: &expr.Literal{Type: types.Int32, Value: int32(minAge)},
			}
			filtered := plan.NewFilter(scan, predicate)

			outRef := bc.PushTable("", []types.LogicalType{types.Utf8, types.Int32, types.Int32},
				[]string{"name", "age", "next_age"})
			projected := plan.NewProjection(filtered, []plan.ProjectionExpr{
				{Expr: &expr.Column{Table: ref, Index: 1, Name: "name"}, Name: "name", Ref: outRef},
				{Expr: ageCol, Name: "age", Ref: outRef},
				{
					Expr: &expr.Arith{
						Op:         expr.ArithAdd,
						Left:       ageCol,
						Right:      &expr.Literal{Type: types.Int32, Value: int32(1)},
						ReturnType: types.Int32,
					},
					Name: "next_age",
					Ref:  outRef,
				},
			})

			regFn := function.NewRegistry()
			function.RegisterArithmeticFamily(regFn)
			function.RegisterDecimalArith(regFn)

			return runPlan(bc, reg, projected, []string{"name", "age", "next_age"}, regFn)
		},
	}
	cmd.Flags().IntVar(&minAge, "min-age", 30, "only rows with age greater than this value survive the filter")
	return cmd
}

// varsCmd declares a couple of session variables, optionally loads
// on-disk defaults via --defaults, applies --set assignments, and
// prints the resulting values the way ShowVar would read them back.
func varsCmd() *cobra.Command {
	var defaultsPath string
	var sets []string
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Declare, load, set, and show session variables",
		RunE: func(*cobra.Command, []string) error {
			setupLogging()

			store := variables.NewStore()
			if err := store.Declare(variables.Definition{Name: "max_rows", Type: types.Int64, Default: int64(1000)}); err != nil {
				return err
			}
			if err := store.Declare(variables.Definition{Name: "search_path", Type: types.Utf8, Default: "public"}); err != nil {
				return err
			}

			if defaultsPath != "" {
				f, err := os.Open(defaultsPath)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				if err := store.LoadDefaults(f); err != nil {
					return err
				}
			}

			for _, assign := range sets {
				name, value, err := parseAssignment(assign)
				if err != nil {
					return err
				}
				if err := store.Set(name, value); err != nil {
					return err
				}
			}

			for _, name := range []string{"max_rows", "search_path"} {
				v, err := store.Get(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s = %v\n", name, v)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&defaultsPath, "defaults", "", "path to a TOML session-variable defaults file")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "name=value assignment, may be repeated")
	return cmd
}

func parseAssignment(s string) (name string, value interface{}, err error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return "", nil, errkind.InvalidArgument.New("expected name=value, got " + s)
	}
	name = parts[0]
	raw := parts[1]
	if n, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
		return name, n, nil
	}
	return name, raw, nil
}

// runPlan lowers root with an optional catalog-backed registry lookup
// and scalar-function registry, executes it to completion, and prints
// every output batch as a simple column table.
func runPlan(bc *expr.BindContext, catalog *memcatalog.Registry, root plan.LogicalOperator, colNames []string, fnReg ...*function.Registry) error {
	var lookup func(plan.TableSource) (physical.TableProvider, error)
	if catalog != nil {
		lookup = catalog.Lookup
	}
	var reg *function.Registry
	if len(fnReg) > 0 {
		reg = fnReg[0]
	}

	printTreeExplain(root, 0)

	planner := physical.NewPhysicalPlanner(reg, bc, lookup, nil)
	sink := physical.NewCollectSink()
	pipeline, err := planner.CreatePlan(root, sink)
	if err != nil {
		return fmt.Errorf("physical planning failed: %w", err)
	}
	if err := pipeline.Execute(context.Background()); err != nil {
		return fmt.Errorf("pipeline execution failed: %w", err)
	}

	fmt.Println(strings.Join(colNames, "\t"))
	for _, batch := range sink.Batches {
		for row := 0; row < batch.NumRows(); row++ {
			cells := make([]string, batch.NumCols())
			for col := 0; col < batch.NumCols(); col++ {
				cells[col] = cellString(batch.Column(col), row)
			}
			fmt.Println(strings.Join(cells, "\t"))
		}
	}
	return nil
}

// printTreeExplain walks root depth-first, rendering every node's
// Explainable.ExplainEntry indented by depth ("Explain contract").
func printTreeExplain(node plan.LogicalOperator, depth int) {
	entry := node.ExplainEntry(plan.ExplainConfig{Verbose: verbose})
	indent := strings.Repeat("  ", depth)
	pairs := make([]string, len(entry.Pairs))
	for i, p := range entry.Pairs {
		pairs[i] = p[0] + "=" + p[1]
	}
	fmt.Printf("%s%s(%s)\n", indent, entry.Name, strings.Join(pairs, ", "))
	for _, child := range node.Children() {
		printTreeExplain(child, depth+1)
	}
}

func cellString(a types.Array, row int) string {
	if a.IsNull(row) {
		return "NULL"
	}
	switch a.Physical() {
	case types.PhysicalI32:
		v, _ := types.GetI32(a, row)
		return strconv.FormatInt(int64(v), 10)
	case types.PhysicalI64:
		v, _ := types.GetI64(a, row)
		return strconv.FormatInt(v, 10)
	case types.PhysicalUtf8:
		v, _ := types.GetUtf8(a, row)
		return v
	case types.PhysicalBool:
		v, _ := types.GetBool(a, row)
		return strconv.FormatBool(v)
	case types.PhysicalF64:
		v, _ := types.GetF64(a, row)
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return "?"
	}
}
