// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gxflag provides flag types for command line tools.
package gxflag

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// numberList parses a comma separated list of numbers.
type numberList[T int | int32 | float64] struct {
	list  *[]T
	parse func(string) (T, error)
}

func (nl *numberList[T]) String() string {
	if nl.list == nil {
		return ""
	}
	vals := make([]string, len(*nl.list))
	for i, v := range *nl.list {
		vals[i] = fmt.Sprint(v)
	}
	return strings.Join(vals, ",")
}

func (nl *numberList[T]) Set(values string) error {
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		v, err := nl.parse(value)
		if err != nil {
			return errors.Errorf("cannot parse %q: %v", value, err)
		}
		*nl.list = append(*nl.list, v)
	}
	return nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// IntListVar defines a flag in a flag set to pass a list of integers.
func IntListVar(fs *flag.FlagSet, name, doc string) *[]int {
	list := &[]int{}
	fs.Var(&numberList[int]{list: list, parse: parseInt}, name, doc)
	return list
}

// Int32ListVar defines a flag in a flag set to pass a list of int32.
func Int32ListVar(fs *flag.FlagSet, name, doc string) *[]int32 {
	list := &[]int32{}
	fs.Var(&numberList[int32]{list: list, parse: parseInt32}, name, doc)
	return list
}

// FloatListVar defines a flag in a flag set to pass a list of float64.
func FloatListVar(fs *flag.FlagSet, name, doc string) *[]float64 {
	list := &[]float64{}
	fs.Var(&numberList[float64]{list: list, parse: parseFloat}, name, doc)
	return list
}
