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

package optic

import (
	"fmt"
)

// These errors are usage errors, not internal errors.  A node that is
// neither a container nor field-bearing is not an error at all: a
// folder just yields nothing from it.

// UsageError occurs when an operation is invoked against an optic
// that can't support it, such as asking a string-pattern traversal to
// walk a map.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return `can't ` + e.Op + `: ` + e.Reason
}

// StructuralMismatch occurs when a builder receives a value count
// inconsistent with the matching folder call on the same state.  It
// signals an adapter or recursion defect and is never recovered.
type StructuralMismatch struct {
	Want int
	Got  int
}

func (e *StructuralMismatch) Error() string {
	return fmt.Sprintf("builder wanted %d values but got %d", e.Want, e.Got)
}

// CyclicStructure occurs when deep recursion revisits a node that is
// still on the active path.  Such a state has no finite focus list.
type CyclicStructure struct{}

func (e *CyclicStructure) Error() string {
	return "cycle in state"
}
