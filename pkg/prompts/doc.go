// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

/*
Package prompts asks the operator for values a command was not given.

Commands resolve a value from its flag, then the environment, then the
config file, and prompt only for what is still missing. Prompting is off
when --non-interactive is passed, STRATCTL_NON_INTERACTIVE or CI is set,
or stdin is not a terminal; every question then fails with
ErrNonInteractive naming it.
*/
package prompts
