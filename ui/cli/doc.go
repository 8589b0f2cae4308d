// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the opsboard command-line interface using Cobra.
// The root command loads configuration, opens the store and wires the
// services into an app value that every subcommand receives. Commands stay
// thin and delegate to internal/users, internal/records and internal/db.
package cli
