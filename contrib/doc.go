// Package contrib contains tools built on top of the SDK that are not
// covered by its backward compatibility guarantee.
package contrib
