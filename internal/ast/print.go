package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a node sequence back into Callisto source text, in the
// same canonical form parser.Parser accepts, so that Print(Parse(x)) is
// idempotent up to source position (spec.md §8 "Round trips"). It exists
// for that property test and for the "--dump" style tooling a driver may
// want, not as a formatter users are expected to run over hand-written
// source.
func Print(nodes []Node) string {
	var b strings.Builder
	printSeq(&b, nodes, 0)
	return b.String()
}

func printSeq(b *strings.Builder, nodes []Node, indent int) {
	for _, n := range nodes {
		printNode(b, n, indent)
	}
}

func pad(b *strings.Builder, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
}

func printNode(b *strings.Builder, n Node, indent int) {
	// esc reverses the lexer's string unescaping so a printed body lexes back
	// to the same bytes.
	esc := strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n", "\t", "\\t", "\r", "\\r", "\x00", "\\0")
	pad(b, indent)
	switch node := n.(type) {
	case *Word:
		b.WriteString(node.Name + "\n")
	case *Integer:
		b.WriteString(strconv.FormatInt(node.Value, 10) + "\n")
	case *String:
		tag := ""
		if node.Constant {
			tag = "c"
		}
		fmt.Fprintf(b, "%s\"%s\"\n", tag, esc.Replace(node.Body))
	case *Array:
		tag := ""
		if node.Constant {
			tag = "c "
		}
		fmt.Fprintf(b, "[%s%s\n", tag, node.ElementType)
		printSeq(b, node.Elements, indent+1)
		pad(b, indent)
		b.WriteString("]\n")
	case *Addr:
		fmt.Fprintf(b, "&%s\n", node.Target)
	case *Let:
		arr := ""
		if node.Array {
			arr = fmt.Sprintf("array %d ", node.Size)
		}
		fmt.Fprintf(b, "let %s%s %s\n", arr, node.Type, node.Name)
	case *Set:
		fmt.Fprintf(b, "-> %s\n", node.Name)
	case *Const:
		fmt.Fprintf(b, "const %s %d\n", node.Name, node.Value)
	case *Restrict:
		fmt.Fprintf(b, "restrict %s\n", node.Name)
	case *Include:
		fmt.Fprintf(b, "include %s\n", node.Path)
	case *Asm:
		b.WriteString("asm")
		for _, line := range strings.Split(node.Text, "\n") {
			fmt.Fprintf(b, " \"%s\"", esc.Replace(line))
		}
		b.WriteString("\n")
	case *Enable:
		fmt.Fprintf(b, "enable %s\n", node.Name)
	case *Requires:
		fmt.Fprintf(b, "requires %s\n", node.Name)
	case *Version:
		not := ""
		if node.Not {
			not = "not "
		}
		fmt.Fprintf(b, "version %s%s\n", not, node.Name)
		printSeq(b, node.Body, indent+1)
		pad(b, indent)
		b.WriteString("end\n")
	case *If:
		for i, clause := range node.Clauses {
			if i == 0 {
				b.WriteString("if\n")
			} else {
				pad(b, indent)
				b.WriteString("elseif\n")
			}
			printSeq(b, clause.Condition, indent+1)
			pad(b, indent)
			b.WriteString("then\n")
			printSeq(b, clause.Body, indent+1)
		}
		if len(node.Else) > 0 {
			pad(b, indent)
			b.WriteString("else\n")
			printSeq(b, node.Else, indent+1)
		}
		pad(b, indent)
		b.WriteString("end\n")
	case *While:
		b.WriteString("while\n")
		printSeq(b, node.Condition, indent+1)
		pad(b, indent)
		b.WriteString("do\n")
		printSeq(b, node.Body, indent+1)
		pad(b, indent)
		b.WriteString("end\n")
	case *FuncDef:
		if node.Inline {
			b.WriteString("inline func ")
		} else {
			b.WriteString("func ")
		}
		if node.Raw {
			b.WriteString("raw ")
		}
		b.WriteString(node.Name)
		for _, p := range node.Params {
			fmt.Fprintf(b, " %s %s", p.Type, p.Name)
		}
		b.WriteString(" begin\n")
		printSeq(b, node.Body, indent+1)
		pad(b, indent)
		b.WriteString("end\n")
	case *Implement:
		fmt.Fprintf(b, "implement %s %s\n", node.Struct, node.Method)
		printSeq(b, node.Body, indent+1)
		pad(b, indent)
		b.WriteString("end\n")
	case *Struct:
		if node.Parent != "" {
			fmt.Fprintf(b, "struct %s : %s\n", node.Name, node.Parent)
		} else {
			fmt.Fprintf(b, "struct %s\n", node.Name)
		}
		for _, m := range node.Members {
			pad(b, indent+1)
			if m.Array {
				fmt.Fprintf(b, "array %d %s %s\n", m.Size, m.Type, m.Name)
			} else {
				fmt.Fprintf(b, "%s %s\n", m.Type, m.Name)
			}
		}
		pad(b, indent)
		b.WriteString("end\n")
	case *Enum:
		fmt.Fprintf(b, "enum %s : %s\n", node.Name, node.BaseType)
		for _, m := range node.Members {
			pad(b, indent+1)
			if m.Explicit {
				fmt.Fprintf(b, "%s = %d\n", m.Name, m.Value)
			} else {
				fmt.Fprintf(b, "%s\n", m.Name)
			}
		}
		pad(b, indent)
		b.WriteString("end\n")
	case *Union:
		fmt.Fprintf(b, "union %s\n", node.Name)
		for _, m := range node.Members {
			pad(b, indent+1)
			b.WriteString(m + "\n")
		}
		pad(b, indent)
		b.WriteString("end\n")
	case *Alias:
		if node.Overwrite {
			fmt.Fprintf(b, "alias overwrite %s %s\n", node.To, node.From)
		} else {
			fmt.Fprintf(b, "alias %s %s\n", node.To, node.From)
		}
	case *Extern:
		switch node.Kind {
		case ExternRaw:
			fmt.Fprintf(b, "extern raw %s\n", node.Name)
		case ExternC:
			fmt.Fprintf(b, "extern C %s %s", node.ReturnType, node.Name)
			for _, p := range node.Params {
				fmt.Fprintf(b, " %s", p)
			}
			b.WriteString("\n")
			pad(b, indent)
			b.WriteString("end\n")
		default:
			fmt.Fprintf(b, "extern %s\n", node.Name)
		}
	default:
		panic(fmt.Sprintf("ast.Print: unhandled node type %T", n))
	}
}
