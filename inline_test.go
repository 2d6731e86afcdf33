package yaml_test

import "errors"

var failingErr = errors.New("some marshal error")

type inlineC struct {
	C int
}

type inlineB struct {
	B int
	inlineC `yaml:",inline"`
}

type inlineD struct {
	C *inlineC `yaml:",inline"`
	D int
}
