package verify

import (
	"context"
	"testing"

	"github.com/NickyBoy89/prec/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckValid(t *testing.T) {
	src := `#include <stdio.h>

typedef struct Point Point;
struct Point { int x; int y;
  void (*move)(Point *self, int dx);
};

int main() {
  printf("%d\n", 1);
  return 0;
}
`
	errs, err := Check(context.Background(), []byte(src))
	require.Nil(t, err)
	assert.Empty(t, errs)
}

func TestCheckBroken(t *testing.T) {
	src := "int main() {\n  int x = ;\n  return 0;\n}\n"
	errs, err := Check(context.Background(), []byte(src))
	require.Nil(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, 2, errs[0].Line)
}

func TestCheckUnrewrittenClass(t *testing.T) {
	src := "class Point { int x; };\nvoid Point::move(int dx) { }\n"
	errs, err := Check(context.Background(), []byte(src))
	require.Nil(t, err)
	assert.NotEmpty(t, errs)
}

func TestCheckTransformOutput(t *testing.T) {
	src := `class Point { int x; int y; };
void Point::move(int dx) { self->x = self->x + dx; }
int main() {
  Point *p = new Point(1, 2);
  p->move(5);
  return 0;
}
`
	out, err := preprocess.Transform(src)
	require.Nil(t, err)

	errs, err := Check(context.Background(), []byte(out))
	require.Nil(t, err)
	assert.Empty(t, errs, "%v", errs)
}

func TestSyntaxErrorString(t *testing.T) {
	assert.Equal(t, "3:7: missing ;", SyntaxError{Line: 3, Column: 7, Missing: true, Expected: ";"}.String())
	assert.Equal(t, `1:2: syntax error near "= ;"`, SyntaxError{Line: 1, Column: 2, Snippet: "= ;"}.String())
}
