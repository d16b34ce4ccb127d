/* Copyright 2023 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package testutil

import (
	"fmt"
	"math/rand"
)

// StructureGen makes random nested structures for exercising
// traversals against varied shapes.  Not for production use.
type StructureGen struct {
	// Depth bounds how deep the structure can nest.
	Depth int

	// Breadth bounds how many children a container gets (at least
	// one).
	Breadth int

	rand    *rand.Rand
	counter int
}

// NewStructureGen makes a deterministic generator for the given seed.
func NewStructureGen(depth, breadth int, seed int64) *StructureGen {
	if depth < 0 {
		depth = 0
	}
	if breadth < 1 {
		breadth = 1
	}
	return &StructureGen{
		Depth:   depth,
		Breadth: breadth,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

// Generate returns a fresh random structure: maps of slices of maps
// of ... down to string leaves.  The top level is always a map.
func (g *StructureGen) Generate() interface{} {
	g.counter = 0
	return g.genMap(g.Depth)
}

func (g *StructureGen) gen(depth int) interface{} {
	if depth <= 0 {
		return g.genValue()
	}
	switch g.rand.Intn(3) {
	case 0:
		return g.genMap(depth)
	case 1:
		return g.genSlice(depth)
	default:
		return g.genValue()
	}
}

func (g *StructureGen) genMap(depth int) interface{} {
	m := make(map[string]interface{})
	for i := 1 + g.rand.Intn(g.Breadth); 0 < i; i-- {
		g.counter++
		m[fmt.Sprintf("k%d", g.counter)] = g.gen(depth - 1)
	}
	return m
}

func (g *StructureGen) genSlice(depth int) interface{} {
	xs := make([]interface{}, 0, g.Breadth)
	for i := 1 + g.rand.Intn(g.Breadth); 0 < i; i-- {
		g.counter++
		xs = append(xs, g.gen(depth-1))
	}
	return xs
}

func (g *StructureGen) genValue() interface{} {
	return fmt.Sprintf("value_%d", g.counter)
}
