/*
Package launcher implements the stub that starts the companion executable shipped inside
a desktop application package.

The project has three main source packages:
`cmd`: The launcher binary placed in the package next to the companion executable.
`internal`: Bundle resolution, loader cache repair, child environment and process supervision.
`pkg`: Library code that's ok to use by external applications.

The launcher reads the companion name from the package descriptor, repairs the loader
module cache when the host lacks an external library install, then relays the child's
output to the log until it exits.
*/
package launcher
