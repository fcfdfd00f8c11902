package defuse_test

import (
	"fmt"

	"github.com/muurk/consolekit/internal/defuse"
)

func ExampleDefuse() {
	fmt.Println(defuse.Defuse(`<b onclick="steal()">Save</b><script>alert(1)</script>`))
	// Output: <b>Save</b>
}

func ExampleDefuse_number() {
	v := defuse.Defuse(42)
	fmt.Printf("%v %T\n", v, v)
	// Output: 42 int
}

func ExampleText() {
	fmt.Println(defuse.Text(`<i>Revoke</i> certificate`))
	// Output: Revoke certificate
}
