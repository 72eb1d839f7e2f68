// pkg/manifest/constants.go
package manifest

const (
	// DefaultName is the formula name used for the Cellar layout
	DefaultName = "sdl-hercules-develop"

	// DefaultVersion is the tagged release of the macOS binary distribution
	DefaultVersion = "0.9.7"

	// DefaultDesc is the formula description
	DefaultDesc = "SDL-Hercules-390 Develop Branch, under The Q Public License"

	// DefaultHomepage is the formula homepage
	DefaultHomepage = "https://github.com/wrljet/sdl-hercules-develop-homebrew"

	// DefaultURL is the source archive for DefaultVersion
	DefaultURL = "https://github.com/wrljet/sdl-hercules-binaries-macos/archive/refs/tags/v0.9.7.tar.gz"

	// DefaultSHA256 is empty: the upstream formula publishes no checksum
	DefaultSHA256 = ""

	// DefaultLicense is the SPDX identifier of the Q Public License
	DefaultLicense = "QPL-1.0"

	// DefaultHead is the git repository used for HEAD installs
	DefaultHead = "https://github.com/wrljet/sdl-hercules-binaries-macos.git"

	// DefaultHeadBranch is the branch checked out for HEAD installs
	DefaultHeadBranch = "main"

	// BinDir is the directory inside the source tree holding the binaries
	BinDir = "bin"
)

// binaries is the install manifest, in install order.
var binaries = []string{
	"cckd2ckd",
	"cckd642ckd",
	"cckdcdsk",
	"cckdcdsk64",
	"cckdcomp",
	"cckdcomp64",
	"cckddiag",
	"cckddiag64",
	"cckdmap",
	"cckdswap",
	"cckdswap64",
	"cfba2fba",
	"cfba642fba",
	"ckd2cckd",
	"ckd2cckd64",
	"convto64",
	"dasdcat",
	"dasdconv",
	"dasdconv64",
	"dasdcopy",
	"dasdcopy64",
	"dasdinit",
	"dasdinit64",
	"dasdisup",
	"dasdlist",
	"dasdload",
	"dasdload64",
	"dasdls",
	"dasdpdsu",
	"dasdseq",
	"dasdser",
	"dmap2hrc",
	"fba2cfba",
	"fba2cfba64",
	"hercifc",
	"herclin",
	"hercules",
	"hetget",
	"hetinit",
	"hetmap",
	"hetupd",
	"maketape",
	"tapecopy",
	"tapemap",
	"tapesplt",
	"vmfplc2",
}

// dirs is the directory copy set installed into the prefix.
var dirs = []string{"lib", "share"}
