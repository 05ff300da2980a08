//go:build !unix

package render

import "os"

func termWidth(*os.File) int {
	return 0
}
