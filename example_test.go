package incode_test

import (
	"errors"
	"fmt"
	"strings"

	"incode"
)

func ExampleExtractRegions() {
	text := strings.Join([]string{
		`// inj:assign({"schema":"User"})`,
		`// inj:emit("pck")`,
		`// inj:end`,
	}, "\n")

	m, _ := incode.NewMatcher("inj")
	regions, err := incode.ExtractRegions(text, m, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, r := range regions {
		fmt.Println(r.Args, r.Data)
	}
	// Output: [pck] map[schema:User]
}

func ExampleInject() {
	text := strings.Join([]string{
		`type T struct {`,
		`	// inj:emit("Name", "ID")`,
		`	// inj:end`,
		`}`,
	}, "\n")

	m, _ := incode.NewMatcher(incode.DefaultPrefix)
	out, err := incode.Inject(text, m, func(r *incode.Region) (string, error) {
		var b strings.Builder
		for _, a := range r.Args {
			fmt.Fprintf(&b, "%s%s string\n", r.Padding, a)
		}
		return b.String(), nil
	}, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)
	// Output:
	// type T struct {
	// 	// inj:emit("Name", "ID")
	// 	Name string
	// 	ID string
	// 	// inj:end
	// }
}

func ExampleError() {
	text := "// inj:emit(\"x\")\n// inj:assign({})\n// inj:end"
	m, _ := incode.NewMatcher("inj")
	_, err := incode.ExtractRegions(text, m, nil)
	fmt.Println(err)
	fmt.Println(errors.Is(err, incode.ErrInvalidRegion))
	// Output:
	// [2:1] emit region must not contain directives, found assign
	// true
}
