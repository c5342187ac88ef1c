package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haodongnj/xtypes"
	"github.com/haodongnj/xtypes/internal/demo"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "build an Outer value, push into its sequence, and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	outer, err := demo.BuildOuterType()
	if err != nil {
		return err
	}

	root := xtypes.NewDynamicData(outer)

	om1, err := root.Member("om1")
	if err != nil {
		return err
	}
	if err := xtypes.SetValue(om1, 6.7); err != nil {
		return err
	}

	om2, err := root.Member("om2")
	if err != nil {
		return err
	}
	im1, err := om2.Member("im1")
	if err != nil {
		return err
	}
	if err := xtypes.SetValue(im1, uint32(42)); err != nil {
		return err
	}
	im2, err := om2.Member("im2")
	if err != nil {
		return err
	}
	if err := xtypes.SetValue(im2, float32(35.8)); err != nil {
		return err
	}

	om3, err := root.Member("om3")
	if err != nil {
		return err
	}
	for _, v := range []uint32{12, 31, 50} {
		elem, err := om3.Push()
		if err != nil {
			return err
		}
		if err := xtypes.SetValue(elem, v); err != nil {
			return err
		}
	}
	mid, err := om3.At(1)
	if err != nil {
		return err
	}
	if err := xtypes.SetValue(mid, uint32(100)); err != nil {
		return err
	}

	fmt.Printf("om1 = %v\n", mustValue[float64](om1))
	fmt.Printf("om2.im1 = %v\n", mustValue[uint32](im1))
	fmt.Printf("om2.im2 = %v\n", mustValue[float32](im2))
	fmt.Printf("size(om3) = %d\n", om3.Size())
	fmt.Print("om3 = [")
	for i := 0; i < int(om3.Size()); i++ {
		if i > 0 {
			fmt.Print(", ")
		}
		e, err := om3.At(i)
		if err != nil {
			return err
		}
		fmt.Print(mustValue[uint32](e))
	}
	fmt.Println("]")

	return root.ForEach(true, func(n xtypes.Node) error {
		access := "<root>"
		switch n.Edge.Kind {
		case xtypes.EdgeMember:
			access = n.Edge.Name
		case xtypes.EdgeIndex:
			access = fmt.Sprintf("[%d]", n.Edge.Index)
		}
		fmt.Printf("depth=%d access=%s type=%s\n", n.Depth, access, n.Data.Type().Name())
		return nil
	})
}

func mustValue[T xtypes.Primitive](d *xtypes.DynamicData) T {
	v, err := xtypes.Value[T](d)
	if err != nil {
		panic(err)
	}
	return v
}
