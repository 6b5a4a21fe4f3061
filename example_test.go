package ivy_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/errz"
)

func ExampleRun() {
	_, err := ivy.Run(context.Background(), "let x = 6; print x * 7;")
	if err != nil {
		fmt.Println(err)
	}
	// Output: 42
}

func ExampleCompile() {
	program, err := ivy.Compile(context.Background(), "let n = 3; while n > 0: print n; n = n - 1; end")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("locals:", program.LocalNames())
	if _, err := program.Run(context.Background()); err != nil {
		fmt.Println(err)
	}
	// Output:
	// locals: [n]
	// 3
	// 2
	// 1
}

func ExampleCompile_errors() {
	_, err := ivy.Compile(context.Background(), "print total;", ivy.WithFilename("sum.ivy"))
	fmt.Println(err)
	// Output: sum.ivy:1:7: error: undefined variable "total"
}

func ExampleProgram_Run_fault() {
	program, err := ivy.Compile(context.Background(), "let d = 0;\nprint 10 / d;",
		ivy.WithFilename("div.ivy"))
	if err != nil {
		fmt.Println(err)
		return
	}
	_, err = program.Run(context.Background(), ivy.WithOutput(os.Stdout))
	var fault *errz.Fault
	if errors.As(err, &fault) {
		fmt.Println(fault.Kind, "on line", fault.Line)
	}
	// Output: division by zero on line 2
}

func ExampleSession() {
	session := ivy.NewSession()
	ctx := context.Background()
	for _, input := range []string{"let x = 20;", "x = x + 1;", "print x * 2;"} {
		if _, err := session.Eval(ctx, input); err != nil {
			fmt.Println(err)
		}
	}
	x, _ := session.Get("x")
	fmt.Println("x =", x)
	// Output:
	// 42
	// x = 21
}
