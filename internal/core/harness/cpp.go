package harness

import (
	"fmt"
	"regexp"
)

var cppResolver = braceResolver{
	language:    "cpp",
	classHeader: regexp.MustCompile(`\b(?:class|struct)\s+Solution\b[^{;]*\{`),
	method:      regexp.MustCompile(`([A-Za-z_]\w*)\s*\([^()]*\)\s*(?:const\s*)?(?:noexcept\s*)?(?:override\s*)?\{`),
	allowFree:   true,
}

// Parameter types are deduced from the method pointer, so each JSON argument
// is converted to exactly what the solution declares.
const cppHarness = `#include <bits/stdc++.h>
#include <nlohmann/json.hpp>
using namespace std;
using json = nlohmann::json;

{{.Code}}

namespace grader {

template <typename T>
using bare = typename std::decay<T>::type;

template <typename Tuple, size_t... I>
Tuple convert(const std::vector<json>& params, std::index_sequence<I...>) {
    return Tuple(params[I].get<typename std::tuple_element<I, Tuple>::type>()...);
}

inline json first(std::tuple<>&) { return nullptr; }

template <typename H, typename... T>
json first(std::tuple<H, T...>& args) { return json(std::get<0>(args)); }

template <typename F, typename Tuple, size_t... I>
json apply(F& fn, Tuple& args, std::index_sequence<I...>, std::false_type) {
    return json(fn(std::get<I>(args)...));
}

template <typename F, typename Tuple, size_t... I>
json apply(F& fn, Tuple& args, std::index_sequence<I...>, std::true_type) {
    fn(std::get<I>(args)...);
    return first(args);
}

inline void arity(size_t got, size_t want) {
    if (got != want) {
        throw std::runtime_error("expected " + std::to_string(want) + " arguments, got " + std::to_string(got));
    }
}

template <typename C, typename R, typename... A>
json call(C& obj, R (C::*method)(A...), const std::vector<json>& params) {
    arity(params.size(), sizeof...(A));
    auto args = convert<std::tuple<bare<A>...>>(params, std::index_sequence_for<A...>{});
    auto fn = [&](bare<A>&... xs) -> R { return (obj.*method)(xs...); };
    return apply(fn, args, std::index_sequence_for<A...>{}, std::is_void<R>{});
}

template <typename C, typename R, typename... A>
json call(C& obj, R (C::*method)(A...) const, const std::vector<json>& params) {
    arity(params.size(), sizeof...(A));
    auto args = convert<std::tuple<bare<A>...>>(params, std::index_sequence_for<A...>{});
    auto fn = [&](bare<A>&... xs) -> R { return (obj.*method)(xs...); };
    return apply(fn, args, std::index_sequence_for<A...>{}, std::is_void<R>{});
}

template <typename R, typename... A>
json call(R (*fn)(A...), const std::vector<json>& params) {
    arity(params.size(), sizeof...(A));
    auto args = convert<std::tuple<bare<A>...>>(params, std::index_sequence_for<A...>{});
    auto wrapped = [&](bare<A>&... xs) -> R { return fn(xs...); };
    return apply(wrapped, args, std::index_sequence_for<A...>{}, std::is_void<R>{});
}

}  // namespace grader

int main() {
    std::ostringstream graderConsole;
    std::streambuf* graderStdout = std::cout.rdbuf(graderConsole.rdbuf());
    json value;
    try {
        std::vector<json> params = json::parse({{.Args}}).get<std::vector<json>>();
        {{.Call}}
    } catch (const std::exception& e) {
        std::cout.rdbuf(graderStdout);
        std::cerr << "Execution error: " << e.what() << std::endl;
        return 1;
    }
    std::cout.rdbuf(graderStdout);
    std::cout << value.dump() << "\n";
    std::string captured = graderConsole.str();
    if (!captured.empty()) {
        std::cout << {{.Delimiter}} << "\n" << captured;
        if (captured.back() != '\n') {
            std::cout << "\n";
        }
    }
    return 0;
}
`

func newCpp(spec languageSpec) (LanguageProfile, error) {
	return newProfile(spec, cppResolver, cppHarness, func(code string, input *Input, entry EntryPoint) (interface{}, error) {
		if !identifier.MatchString(entry.Name) {
			return nil, fmt.Errorf("invalid entry point %q", entry.Name)
		}
		call := fmt.Sprintf("value = grader::call(&%s, params);", entry.Name)
		if entry.Receiver != "" {
			call = fmt.Sprintf("%s solution;\n        value = grader::call(solution, &%s::%s, params);",
				entry.Receiver, entry.Receiver, entry.Name)
		}
		return struct {
			Code, Args, Call, Delimiter string
		}{
			Code:      code,
			Args:      cppString(input.ArgsJSON()),
			Call:      call,
			Delimiter: cppString(delimiter),
		}, nil
	})
}
