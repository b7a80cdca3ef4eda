// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package warehouse

import "errors"

var (
	// ErrUnmappedCampaign means a sale references a (channel, campaign) pair
	// that did not resolve to a campaign id. The extract is internally
	// inconsistent and the whole run rolls back.
	ErrUnmappedCampaign = errors.New("missing campaign mapping for sale")
)
