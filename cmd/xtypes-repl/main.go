// The xtypes-repl tool is an interactive shell over a single DynamicData
// instance, for poking at the cursor API by hand. Run "xtypes-repl" and
// type "help" for the command list.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/haodongnj/xtypes"
	"github.com/haodongnj/xtypes/internal/demo"
)

func main() {
	rl, err := readline.New("xtypes> ")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer rl.Close()

	sh := newShell()
	fmt.Println(`xtypes-repl: type "help" for commands`)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		sh.dispatch(line)
	}
}

// shell holds the current cursor position: a path of field/index access
// strings from the root, re-resolved against root on every command so
// "up" is just popping the last path element.
type shell struct {
	root *xtypes.DynamicData
	path []string
}

func newShell() *shell {
	outer, err := demo.BuildOuterType()
	if err != nil {
		panic(err)
	}
	return &shell{root: xtypes.NewDynamicData(outer)}
}

func (s *shell) cursor() (*xtypes.DynamicData, error) {
	cur := s.root
	for _, p := range s.path {
		var err error
		if i, ierr := strconv.Atoi(p); ierr == nil {
			cur, err = cur.At(i)
		} else {
			cur, err = cur.Member(p)
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (s *shell) dispatch(line string) {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]
	switch cmd {
	case "help":
		fmt.Println(`commands:
  cd <name|index>   descend into a member or collection element
  up                return to the parent cursor
  tree              print the path from root to the current cursor
  get               print the current cursor's type and, for a leaf, its value
  set <value>       write value into the current primitive or string leaf
  push [value]      append to the current sequence, optionally setting it
  size              print the current cursor's element/member count`)
	case "cd":
		if len(rest) != 1 {
			fmt.Println("usage: cd <name|index>")
			return
		}
		s.path = append(s.path, rest[0])
		if _, err := s.cursor(); err != nil {
			fmt.Println(err)
			s.path = s.path[:len(s.path)-1]
		}
	case "up":
		if len(s.path) == 0 {
			fmt.Println("already at root")
			return
		}
		s.path = s.path[:len(s.path)-1]
	case "tree":
		fmt.Println("/" + strings.Join(s.path, "/"))
	case "size":
		cur, err := s.cursor()
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(cur.Size())
	case "get":
		s.get()
	case "set":
		if len(rest) != 1 {
			fmt.Println("usage: set <value>")
			return
		}
		s.set(rest[0])
	case "push":
		s.push(rest)
	default:
		fmt.Printf("unknown command %q, type help\n", cmd)
	}
}

func (s *shell) get() {
	cur, err := s.cursor()
	if err != nil {
		fmt.Println(err)
		return
	}
	t := cur.Type().Resolve()
	fmt.Printf("type: %s (%s)\n", t.Name(), t.Kind())
	switch t.Kind() {
	case xtypes.KindString:
		str, err := cur.Str()
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("value: %q\n", str)
	default:
		var v any
		switch t.Kind() {
		case xtypes.KindFloat64:
			v, err = xtypes.Value[float64](cur)
		case xtypes.KindFloat32:
			v, err = xtypes.Value[float32](cur)
		case xtypes.KindUint32:
			v, err = xtypes.Value[uint32](cur)
		case xtypes.KindInt32:
			v, err = xtypes.Value[int32](cur)
		default:
			return
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("value: %v\n", v)
	}
}

func (s *shell) set(arg string) {
	cur, err := s.cursor()
	if err != nil {
		fmt.Println(err)
		return
	}
	t := cur.Type().Resolve()
	if t.Kind() == xtypes.KindString {
		if err := cur.SetStr(arg); err != nil {
			fmt.Println(err)
		}
		return
	}
	f, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		fmt.Println(err)
		return
	}
	switch t.Kind() {
	case xtypes.KindFloat64:
		err = xtypes.SetValue(cur, f)
	case xtypes.KindFloat32:
		err = xtypes.SetValue(cur, float32(f))
	case xtypes.KindUint32:
		err = xtypes.SetValue(cur, uint32(f))
	case xtypes.KindInt32:
		err = xtypes.SetValue(cur, int32(f))
	default:
		fmt.Printf("set: unsupported kind %s\n", t.Kind())
		return
	}
	if err != nil {
		fmt.Println(err)
	}
}

func (s *shell) push(args []string) {
	cur, err := s.cursor()
	if err != nil {
		fmt.Println(err)
		return
	}
	elem, err := cur.Push()
	if err != nil {
		fmt.Println(err)
		return
	}
	if len(args) == 1 {
		t := elem.Type().Resolve()
		f, ferr := strconv.ParseFloat(args[0], 64)
		if ferr != nil {
			fmt.Println(ferr)
			return
		}
		switch t.Kind() {
		case xtypes.KindUint32:
			err = xtypes.SetValue(elem, uint32(f))
		case xtypes.KindFloat32:
			err = xtypes.SetValue(elem, float32(f))
		case xtypes.KindFloat64:
			err = xtypes.SetValue(elem, f)
		default:
			fmt.Printf("push: unsupported kind %s\n", t.Kind())
			return
		}
		if err != nil {
			fmt.Println(err)
		}
	}
}
