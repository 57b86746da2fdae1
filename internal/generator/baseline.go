package generator

import (
	"fmt"
	"time"
)

const (
	licenseFile = "LICENSE"
	readmeFile  = "README.md"
)

const mitLicenseTemplate = `MIT License

Copyright (c) %d

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.`

const defaultReadme = `# Generated Site

This repository contains an auto-generated static website.

## Usage

Open index.html in a browser, or visit the GitHub Pages deployment for this
repository.

## License

MIT, see LICENSE.`

// EnsureBaseline guarantees that a file set contains a license and a readme,
// synthesizing defaults when the model omitted them. Files already present
// are never touched, so repeated application is a no-op.
func EnsureBaseline(files FileSet) {
	if _, ok := files[licenseFile]; !ok {
		files[licenseFile] = fmt.Sprintf(mitLicenseTemplate, time.Now().Year())
	}
	if _, ok := files[readmeFile]; !ok {
		files[readmeFile] = defaultReadme
	}
}
