// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Document shape errors
var (
	// ErrNotArray indicates the top-level JSON value is not an array.
	ErrNotArray = errors.New("document must be a JSON array")

	// ErrNotObject indicates an array element is not a JSON object.
	ErrNotObject = errors.New("record must be a JSON object")

	// ErrInvalidKey indicates an object key token was not a string.
	ErrInvalidKey = errors.New("record key must be a string")
)
