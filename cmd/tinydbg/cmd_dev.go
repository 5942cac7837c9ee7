/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import "github.com/spf13/cobra"

var devCmd = &cobra.Command{
	Use:   "dev <subcommand>",
	Short: "Collection of subcommands for developing tinydbg itself",
	Long: `Collection of subcommands useful for developing tinydbg itself.
If you are not working to improve the 'tinydbg' tool, you probably
don't need to look here.`,
}
