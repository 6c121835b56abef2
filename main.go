// SPDX-License-Identifier: MPL-2.0

package main

import cmd "coursecart/cmd/coursecart"

func main() {
	cmd.Execute()
}
